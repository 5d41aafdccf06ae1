package shield

import (
	"encoding/json"
	"net/http"

	"Radviz/internal/calc"
	"Radviz/internal/calc/render"
)

type Handler struct {
	Env *calc.Env
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, render.MaxBody)).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Size(h.Env, input)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSONBody(w, http.StatusOK, res)
}
