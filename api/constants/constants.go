package constants

// Common error messages
const (
	ErrInvalidSession             = "invalid user_id or session"
	ErrInvalidJSON                = "invalid json or missing fields"
	ErrMissingUserID              = "Missing or invalid user_id in body"
	ErrUserIDRequired             = "user_id required"
	ErrDB                         = "DB error"
	ErrInvalidRequestBody         = "Invalid request body"
	ErrFailedToQuery              = "Failed to query"
	ErrPleaseLogin                = "Please login to continue."
	ErrMethodNotAllowed           = "Method Not Allowed"
	ErrFailedToParseMultipartForm = "Failed to parse multipart form"
	ErrUnsupportedFileType        = "unsupported file type"
	ErrEmptyFile                  = "Invalid or empty file"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "Content-Type"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
	DateFormatAlt  = "02-01-2006"
	DateFormatBR   = "02/01/2006"
)

// Keys
const (
	KeyUserID = "user_id"
)

// Installment status values
const (
	ParcelaStatusPendente = "PENDENTE"
	ParcelaStatusPago     = "PAGO"
)

// Installment kinds
const (
	ParcelaTipoEntrada    = "entrada"
	ParcelaTipoHonorarios = "honorarios"
	ParcelaTipoTMP        = "tmp"
)

// Process status values
const (
	ProcessoStatusAtivo = "ATIVO"
)
