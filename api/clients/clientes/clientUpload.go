package clientes

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"JurisOfficeSaas/api/auth"
	"JurisOfficeSaas/api/clients/importer"
	"JurisOfficeSaas/api/constants"
	"JurisOfficeSaas/internal/checksum"
	"JurisOfficeSaas/internal/config"
	"JurisOfficeSaas/internal/logger"
	"JurisOfficeSaas/internal/progress"
	"JurisOfficeSaas/internal/storage"

	"github.com/extrame/xls"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
)

// Helper: get file extension
func getFileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// Helper: parse uploaded file bytes into [][]string
func parseUploadFile(data []byte, ext string) ([][]string, error) {
	switch ext {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		return r.ReadAll()
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		return f.GetRows(sheet)
	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		sheet := wb.GetSheet(0)
		if sheet == nil {
			return nil, errors.New(constants.ErrEmptyFile)
		}
		return wb.ReadAllCells(int(sheet.MaxRow) + 1), nil
	}
	return nil, errors.New(constants.ErrUnsupportedFileType)
}

// Handler: UploadClientes runs the bulk client import pipeline:
// parse -> normalize/validate -> dedup -> batched commit -> error report.
func UploadClientes(pgxPool *pgxpool.Pool, reports *storage.ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := ""
		if r.Header.Get("Content-Type") == "application/json" {
			var req struct {
				UserID string `json:"user_id"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
				http.Error(w, constants.ErrUserIDRequired, http.StatusBadRequest)
				return
			}
			userID = req.UserID
		} else {
			userID = r.FormValue(constants.KeyUserID)
			if userID == "" {
				http.Error(w, constants.ErrUserIDRequired, http.StatusBadRequest)
				return
			}
		}

		// Fetch user name from active sessions
		userName := ""
		sessions := auth.GetActiveSessions()
		for _, s := range sessions {
			if s.UserID == userID {
				userName = s.Name
				break
			}
		}
		if userName == "" {
			http.Error(w, constants.ErrUserNotFound, http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
			http.Error(w, constants.ErrFailedToParseMultipartForm, http.StatusBadRequest)
			return
		}
		if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
			http.Error(w, constants.ErrNoFilesUploaded, http.StatusBadRequest)
			return
		}

		// One run = one file: take the first uploaded file.
		var fileName string
		var fileData []byte
		for _, files := range r.MultipartForm.File {
			for _, fileHeader := range files {
				file, err := fileHeader.Open()
				if err != nil {
					http.Error(w, constants.FormatError(constants.ErrFileOpenFailed, fileHeader.Filename), http.StatusBadRequest)
					return
				}
				buf := new(bytes.Buffer)
				_, err = buf.ReadFrom(file)
				file.Close()
				if err != nil {
					http.Error(w, constants.FormatError(constants.ErrFileOpenFailed, fileHeader.Filename), http.StatusBadRequest)
					return
				}
				fileName = fileHeader.Filename
				fileData = buf.Bytes()
				break
			}
			if fileName != "" {
				break
			}
		}

		records, err := parseUploadFile(fileData, getFileExt(fileName))
		if err != nil || len(records) < 2 {
			http.Error(w, constants.ErrEmptyFile+": "+fileName, http.StatusBadRequest)
			return
		}
		progress.SendImportProgress(userID, 10)

		result, err := runImport(r.Context(), pgImportDeps(pgxPool, reports), userID, fileName, records)
		if err != nil {
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Import aborted for user %s: %v", userID, err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		recordImportBatch(r.Context(), pgxPool, userID, fileName, fileData, &result)

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(result)
	}
}

// importDeps are the external collaborators of one import run. The
// handler wires the pgx-backed set; tests substitute their own.
type importDeps struct {
	fetchKeys func(ctx context.Context, ownerID string) (importer.ExistingKeys, error)
	store     importer.ClientStore
	reports   *storage.ReportStore
}

func pgImportDeps(pgxPool *pgxpool.Pool, reports *storage.ReportStore) importDeps {
	return importDeps{
		fetchKeys: func(ctx context.Context, ownerID string) (importer.ExistingKeys, error) {
			return importer.FetchExistingKeys(ctx, pgxPool, ownerID)
		},
		store:   importer.NewPgStore(pgxPool),
		reports: reports,
	}
}

// runImport executes the pipeline stages after the run-level fatal
// checks have passed. A failed dedup snapshot is also fatal: committing
// against an empty snapshot would void the duplicate-skip guarantee and
// leave the unique indexes sinking whole batches instead. Past the
// snapshot, everything accumulates errors structurally.
func runImport(ctx context.Context, deps importDeps, userID, fileName string, records [][]string) (importer.ImportResult, error) {
	result := importer.ImportResult{TotalRows: len(records) - 1}

	// Normalize every row; collect all errors in one pass.
	rows := importer.RowsFromRecords(records)
	candidates := make([]importer.CandidateRecord, 0, len(rows))
	for i, raw := range rows {
		rec := importer.Normalize(raw, i+2) // header is line 1
		result.Errors = append(result.Errors, rec.Errors...)
		result.Warnings = append(result.Warnings, rec.Warnings...)
		candidates = append(candidates, rec)
	}
	valid := make([]importer.CandidateRecord, 0, len(candidates))
	for _, c := range candidates {
		if c.Valid() {
			valid = append(valid, c)
		}
	}
	result.ValidRows = len(valid)
	result.InvalidRows = result.TotalRows - result.ValidRows
	progress.SendImportProgress(userID, 30)

	// Dedup snapshot: one query per run regardless of row count.
	existing, err := deps.fetchKeys(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("%s: %w", constants.ErrDedupLookupFailed, err)
	}
	progress.SendImportProgress(userID, 50)
	toInsert, skipped := importer.FilterDuplicates(valid, existing)
	result.DuplicatesSkipped = skipped

	committer := importer.NewCommitter(deps.store).
		WithProgress(func(pct int) { progress.SendImportProgress(userID, pct) })
	commit := committer.Commit(ctx, toInsert, userID)
	result.ImportedRows = commit.ImportedRows
	result.ProcessesCreated = commit.ProcessesCreated

	// Error report whenever anything was rejected, including the
	// all-invalid case.
	if len(result.Errors) > 0 {
		blob, err := importer.BuildErrorReport(result.Errors)
		if err != nil {
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("%s: %v", constants.ErrReportBuildFailed, err))
			}
		} else if deps.reports != nil {
			name := importer.ReportFileName(fileName, time.Now())
			if key, err := deps.reports.Upload(name, blob); err == nil {
				result.ReportKey = key
			} else if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("%s: %v", constants.ErrReportUploadFailed, err))
			}
		}
	}

	return result, nil
}

// recordImportBatch writes the run's audit row and flags same-file
// re-uploads by hash. Best effort: a logging failure never fails a run.
func recordImportBatch(ctx context.Context, pgxPool *pgxpool.Pool, userID, fileName string, fileData []byte, result *importer.ImportResult) {
	hash := checksum.FileHash(fileData)

	var prior int
	if err := pgxPool.QueryRow(ctx, `SELECT COUNT(*) FROM import_batches WHERE user_id = $1 AND file_hash = $2`, userID, hash).Scan(&prior); err == nil && prior > 0 {
		result.DuplicateUpload = true
	}

	_, err := pgxPool.Exec(ctx, `
		INSERT INTO import_batches (id, user_id, file_name, file_hash, total_rows, imported_rows, failed_rows, duplicates_skipped, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`, uuid.New().String(), userID, fileName, hash,
		result.TotalRows, result.ImportedRows, result.InvalidRows, result.DuplicatesSkipped)
	if err != nil && logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("Failed to record import batch for user %s: %v", userID, err))
	}
}
