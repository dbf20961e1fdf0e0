package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_NameRequired(t *testing.T) {
	for _, nome := range []string{"", "   ", "\t"} {
		rec := Normalize(RawRow{"nome": nome}, 2)
		require.Len(t, rec.Errors, 1)
		assert.Equal(t, "nome", rec.Errors[0].Field)
		assert.False(t, rec.Valid(), "record without name must be excluded from commit")
	}
}

func TestNormalize_NameTitleCased(t *testing.T) {
	rec := Normalize(RawRow{"nome": "  maria DAS dores silva "}, 2)
	require.True(t, rec.Valid())
	assert.Equal(t, "Maria Das Dores Silva", rec.Nome)
}

func TestNormalize_Email(t *testing.T) {
	rec := Normalize(RawRow{"nome": "Ana", "email": "Ana.Souza@Example.COM"}, 2)
	require.True(t, rec.Valid())
	assert.Equal(t, "ana.souza@example.com", rec.Email)

	rec = Normalize(RawRow{"nome": "Ana", "email": "not-an-email"}, 3)
	require.Len(t, rec.Errors, 1)
	assert.Equal(t, "email", rec.Errors[0].Field)
	assert.Equal(t, 3, rec.Errors[0].Line)

	// absence is not an error
	rec = Normalize(RawRow{"nome": "Ana"}, 4)
	assert.True(t, rec.Valid())
	assert.Empty(t, rec.Email)
}

func TestNormalize_PhoneShortIsNulledNotRejected(t *testing.T) {
	rec := Normalize(RawRow{"nome": "Ana", "telefone": "(11) 9876"}, 2)
	assert.True(t, rec.Valid())
	assert.Empty(t, rec.Telefone)

	rec = Normalize(RawRow{"nome": "Ana", "telefone": "(11) 98765-4321"}, 2)
	assert.Equal(t, "11987654321", rec.Telefone)
}

func TestNormalize_CpfCnpjDigitCount(t *testing.T) {
	// 11 digits (CPF) and 14 digits (CNPJ) pass after stripping punctuation
	rec := Normalize(RawRow{"nome": "Ana", "cpf": "123.456.789-01"}, 2)
	require.True(t, rec.Valid())
	assert.Equal(t, "12345678901", rec.CpfCnpj)

	rec = Normalize(RawRow{"nome": "Ana", "cnpj": "12.345.678/0001-95"}, 2)
	require.True(t, rec.Valid())
	assert.Equal(t, "12345678000195", rec.CpfCnpj)

	// any other non-empty digit count fails
	for _, doc := range []string{"123", "123456789012", "1234567890123456"} {
		rec = Normalize(RawRow{"nome": "Ana", "cpf": doc}, 2)
		require.Len(t, rec.Errors, 1, "doc %q", doc)
		assert.Equal(t, "cpf_cnpj", rec.Errors[0].Field)
	}
}

func TestNormalize_ProcessoPartialPairIsWarningOnly(t *testing.T) {
	rec := Normalize(RawRow{"nome": "Ana", "processo": "0001234-56.2024.8.26.0100"}, 2)
	assert.True(t, rec.Valid(), "half-filled process pair must not reject the client row")
	assert.False(t, rec.HasProcesso())
	require.Len(t, rec.Warnings, 1)
	assert.Equal(t, "processo", rec.Warnings[0].Field)

	rec = Normalize(RawRow{"nome": "Ana", "processo": "0001234-56", "tipo processo": "Trabalhista"}, 2)
	assert.True(t, rec.HasProcesso())
	assert.Empty(t, rec.Warnings)
}

func TestNormalize_EnderecoConcatenation(t *testing.T) {
	rec := Normalize(RawRow{"nome": "Ana", "rua": "Rua A, 10", "bairro": "Centro", "cidade": "Santos", "cep": "11000-000"}, 2)
	assert.Equal(t, "Rua A, 10, Centro, Santos, 11000-000", rec.Endereco)

	// single endereco column passes through untouched
	rec = Normalize(RawRow{"nome": "Ana", "endereco": "Av. Paulista 1000"}, 2)
	assert.Equal(t, "Av. Paulista 1000", rec.Endereco)
}

func TestRowsFromRecords_LineNumbersAndAliases(t *testing.T) {
	records := [][]string{
		{"Nome Completo", "E-MAIL", "Celular", "CPF"},
		{"joão da silva", "joao@ex.com", "11 98888-7777", "123.456.789-01"},
		{"", "x@y.z", "", ""},
	}
	rows := RowsFromRecords(records)
	require.Len(t, rows, 2)

	// header row is line 1, first data row is line 2
	rec := Normalize(rows[0], 2)
	require.True(t, rec.Valid())
	assert.Equal(t, "João Da Silva", rec.Nome)
	assert.Equal(t, "joao@ex.com", rec.Email)
	assert.Equal(t, "11988887777", rec.Telefone)
	assert.Equal(t, "12345678901", rec.CpfCnpj)

	rec = Normalize(rows[1], 3)
	assert.False(t, rec.Valid())
	assert.Equal(t, 3, rec.Errors[0].Line)
}

func TestRowsFromRecords_EmptyFile(t *testing.T) {
	assert.Nil(t, RowsFromRecords(nil))
	assert.Nil(t, RowsFromRecords([][]string{{"nome"}}))
}
