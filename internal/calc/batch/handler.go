package batch

import (
	"encoding/json"
	"net/http"

	"Radviz/internal/calc"
	"Radviz/internal/calc/render"
)

// maxUpload bounds spreadsheet uploads.
const maxUpload = 8 << 20

type Handler struct {
	Env *calc.Env
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, render.MaxBody)).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(h.Env, input)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSONBody(w, http.StatusOK, res)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(h.Env, file)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSONBody(w, http.StatusOK, res)
}
