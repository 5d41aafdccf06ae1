package proton

import (
	"net/http"

	"Radviz/internal/calc"
	"Radviz/internal/calc/render"
	"Radviz/internal/calc/series"
)

type Handler struct {
	Env *calc.Env
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request)   { h.serve(w, r, render.JSON) }
func (h *Handler) Plot(w http.ResponseWriter, r *http.Request)   { h.serve(w, r, render.PNG) }
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) { h.serve(w, r, render.XLSX) }
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) { h.serve(w, r, render.PDF) }

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, f render.Format) {
	render.Serve(w, r, f, func(in Input) (*series.Table, error) {
		return Calculate(h.Env, in)
	})
}
