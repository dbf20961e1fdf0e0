package constants

import "fmt"

// ============================================================================
// AUTHENTICATION & SESSION ERRORS
// ============================================================================

const (
	ErrSessionExpired = "Your session has expired. Please login again"
	ErrUnauthorized   = "You are not authorized to perform this action"
	ErrUserNotFound   = "User not found in active sessions"
)

// ============================================================================
// IMPORT / UPLOAD ERRORS
// ============================================================================

const (
	ErrNoFilesUploaded      = "No files uploaded"
	ErrFileOpenFailed       = "Failed to open file: %s"
	ErrFileEmpty            = "The uploaded file has no data rows"
	ErrInvalidDataRow       = "Linha %d: %s"
	ErrInvalidFieldValue    = "Campo %s inválido: %s"
	ErrMissingRequiredField = "Campo obrigatório ausente: %s"
	ErrDedupLookupFailed    = "Failed to verify existing clients; import aborted"
	ErrReportBuildFailed    = "Failed to build error report"
	ErrReportUploadFailed   = "Failed to store error report"
)

// Row-level validation messages (pt-BR, shown to the office staff in the
// generated error spreadsheet)
const (
	MsgNomeObrigatorio    = "Nome é obrigatório"
	MsgEmailInvalido      = "Email em formato inválido"
	MsgCpfCnpjInvalido    = "CPF/CNPJ deve ter 11 ou 14 dígitos"
	MsgProcessoIncompleto = "Número ou tipo do processo ausente; processo não criado"
)

// ============================================================================
// BILLING / COBRANCA ERRORS
// ============================================================================

const (
	ErrParcelaNotFound    = "Installment not found or you don't have access to it"
	ErrParcelaAlreadyPaid = "Installment is already settled"
	ErrParcelaNotDue      = "Installment has no reminder due today"
	ErrNoPhoneOnFile      = "Client has no valid phone number on file"
	ErrGatewayUnavailable = "Messaging gateway unavailable"
	ErrDispatchFailed     = "Failed to dispatch message: %s"
)

// ============================================================================
// SUCCESS MESSAGES
// ============================================================================

const (
	SuccessCreated  = "Record created successfully"
	SuccessUpdated  = "Record updated successfully"
	SuccessUploaded = "File uploaded successfully. %d records processed"
	SuccessPayment  = "Payment confirmed"
)

// ============================================================================
// HELPER FUNCTIONS TO FORMAT ERRORS WITH CONTEXT
// ============================================================================

// FormatError formats an error message with additional context
func FormatError(baseError string, context ...interface{}) string {
	if len(context) == 0 {
		return baseError
	}
	return fmt.Sprintf(baseError, context...)
}

// FormatRowError formats an error for a specific data row
func FormatRowError(rowNum int, reason string) string {
	return fmt.Sprintf(ErrInvalidDataRow, rowNum, reason)
}

// FormatFieldError formats an error for a specific field
func FormatFieldError(fieldName string, reason string) string {
	return fmt.Sprintf(ErrInvalidFieldValue, fieldName, reason)
}
