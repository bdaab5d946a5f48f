package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fields detalla los errores de validación por campo (solo Code=VALIDATION).
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse respuesta simple para operaciones sin cuerpo de datos.
type MessageResponse struct {
	Message string `json:"message"`
}

// CountResponse total de elementos.
type CountResponse struct {
	Count int64 `json:"count"`
}

// ExistsResponse resultado de una verificación de existencia.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// DeletedResponse cantidad de elementos eliminados.
type DeletedResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}
