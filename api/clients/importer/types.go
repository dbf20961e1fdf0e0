package importer

// RawRow maps a normalized header name to the cell value of one
// spreadsheet row. Ephemeral, only alive during an import run.
type RawRow map[string]string

// ValidationError is one row-level problem found during normalization
// or commit. Errors are accumulated, never thrown mid-run.
type ValidationError struct {
	Line    int    `json:"linha"`
	Field   string `json:"campo"`
	Value   string `json:"valor"`
	Message string `json:"mensagem"`
}

// CandidateRecord is a normalized client row awaiting commit.
type CandidateRecord struct {
	Line           int
	Nome           string
	Email          string
	Telefone       string
	CpfCnpj        string
	Endereco       string
	ProcessoNumero string
	ProcessoTipo   string
	Errors         []ValidationError
	Warnings       []ValidationError
}

// Valid reports whether the record can be committed.
func (c *CandidateRecord) Valid() bool {
	return len(c.Errors) == 0
}

// HasProcesso reports whether the row carried a complete process pair.
// Partial presence is treated as "no process data" (a warning is
// recorded during normalization, the client row itself stays valid).
func (c *CandidateRecord) HasProcesso() bool {
	return c.ProcessoNumero != "" && c.ProcessoTipo != ""
}

// ExistingKeys is the point-in-time snapshot of dedup keys already
// persisted for an owner. Fetched once per run.
type ExistingKeys struct {
	Emails  map[string]struct{}
	CpfCnpj map[string]struct{}
}

// ImportResult is the return contract of one import run.
type ImportResult struct {
	TotalRows         int               `json:"total_rows"`
	ValidRows         int               `json:"valid_rows"`
	InvalidRows       int               `json:"invalid_rows"`
	ImportedRows      int               `json:"imported_rows"`
	DuplicatesSkipped int               `json:"duplicates_skipped"`
	ProcessesCreated  int               `json:"processes_created"`
	Errors            []ValidationError `json:"errors"`
	Warnings          []ValidationError `json:"warnings,omitempty"`
	ReportKey         string            `json:"report_key,omitempty"`
	DuplicateUpload   bool              `json:"duplicate_upload,omitempty"`
}
