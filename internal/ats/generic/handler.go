// Fallback handler for unrecognized application systems. The shared base
// heuristics are the whole strategy here.

package generic

import "go-autoapply-engine/internal/ats"

type Handler struct {
	*ats.Base
}

func New() *Handler {
	return &Handler{Base: ats.NewBase("generic")}
}
