package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildErrorReport_RoundTrip(t *testing.T) {
	errs := []ValidationError{
		{Line: 3, Field: "email", Value: "foo@", Message: "E-mail inválido"},
		{Line: 7, Field: "cpf_cnpj", Value: "123", Message: "CPF/CNPJ inválido"},
	}

	blob, err := BuildErrorReport(errs)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Erros")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Linha", "Campo", "Valor", "Mensagem"}, rows[0])
	assert.Equal(t, []string{"3", "email", "foo@", "E-mail inválido"}, rows[1])
	assert.Equal(t, []string{"7", "cpf_cnpj", "123", "CPF/CNPJ inválido"}, rows[2])
}

func TestBuildErrorReport_NoErrors(t *testing.T) {
	blob, err := BuildErrorReport(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Erros")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestReportFileName(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "erros_clientes_agosto_2026-08-30.xlsx", ReportFileName("clientes agosto.xlsx", now))
	assert.Equal(t, "erros_base_2026-08-30.xlsx", ReportFileName("/tmp/uploads/base.csv", now))
	assert.Equal(t, "erros_importacao_2026-08-30.xlsx", ReportFileName("", now))
	// same input, same day: deterministic collision
	assert.Equal(t, ReportFileName("base.xls", now), ReportFileName("base.xls", now))
}
