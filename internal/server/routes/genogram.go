package routes

import (
	"github.com/caredx/genogram/pkg/genogram"
)

type genogramResponse struct {
	Success     bool                  `json:"success"`
	ID          string                `json:"id,omitempty"`
	Shape       genogram.Shape        `json:"shape,omitempty"`
	Fingerprint string                `json:"fingerprint,omitempty"`
	Data        *genogram.RenderGraph `json:"data,omitempty"`
	Diagnostics []genogram.Diagnostic `json:"diagnostics,omitempty"`
	Error       string                `json:"error,omitempty"`
}

func newGenogramResponse(res *genogram.Result) genogramResponse {
	out := genogramResponse{
		Success:     res.Shape != genogram.ShapeUnknown,
		ID:          res.ID,
		Shape:       res.Shape,
		Fingerprint: res.Fingerprint,
		Data:        &res.Render,
		Diagnostics: res.Diagnostics,
	}
	if !out.Success {
		out.Error = "Unrecognized genogram payload"
	}
	return out
}
