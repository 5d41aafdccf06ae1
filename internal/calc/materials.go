package calc

import (
	"encoding/json"
	"net/http"

	"Radviz/internal/physics/material"
)

type MaterialList struct {
	Keys      []string            `json:"keys"`
	Materials []material.Material `json:"materials"`
}

// ListMaterials serves the constants table.
func (e *Env) ListMaterials(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MaterialList{Keys: e.Materials.Keys(), Materials: e.Materials.All()})
}
