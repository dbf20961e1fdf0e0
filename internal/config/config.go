package config

const (
	DefaultTimeZone = "America/Sao_Paulo"

	// Import pipeline
	InsertBatchSize = 100
	MaxUploadBytes  = 32 << 20
	ReportBucket    = "relatorios"

	// Cobranca cadence rules (days relative to due date)
	ReminderDaysBefore      = 3
	OverdueReminderInterval = 5

	// Cobranca Scheduler Constants
	DefaultCobrancaSchedule  = "0 9 * * *" // daily, office-morning run
	CobrancaBatchSize        = 100
	MessageDispatchDelayMs   = 1500
	DefaultGatewayMaxRetries = 3
)
