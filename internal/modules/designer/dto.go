package designer

import "designshop/internal/domain"

type MessageResponse struct {
	Message string                  `json:"message"`
	Request *domain.DesignerRequest `json:"request,omitempty"`
}
