package importer

import (
	"regexp"
	"strings"

	"JurisOfficeSaas/api/constants"
)

// fieldAliases maps each logical field to the header spellings seen in
// spreadsheets produced by different office tools. First non-empty
// match wins. Headers are matched after normalizeHeader.
var fieldAliases = map[string][]string{
	"nome":            {"nome", "name", "cliente", "nome completo", "razao social"},
	"email":           {"email", "e-mail", "correio eletronico"},
	"telefone":        {"telefone", "celular", "fone", "whatsapp", "phone", "contato"},
	"cpf_cnpj":        {"cpf", "cnpj", "cpf/cnpj", "cpf_cnpj", "documento", "doc"},
	"endereco":        {"endereco", "address", "logradouro"},
	"rua":             {"rua", "street"},
	"bairro":          {"bairro", "district"},
	"cidade":          {"cidade", "city", "municipio"},
	"cep":             {"cep", "codigo postal", "postal code"},
	"numero_processo": {"numero do processo", "numero processo", "processo", "n processo", "num processo"},
	"tipo_processo":   {"tipo do processo", "tipo processo", "tipo de processo", "area", "area do processo"},
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "õ", "o", "ô", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
	"º", "", "°", "",
)

// normalizeHeader lowers, trims and strips accents so "Número do
// Processo" and "numero do processo" land on the same alias.
func normalizeHeader(h string) string {
	return strings.TrimSpace(accentReplacer.Replace(strings.ToLower(h)))
}

// RowsFromRecords zips the header row with every data row into RawRows.
// records[0] is the header (spreadsheet line 1); the first data row is
// line 2. Returned slice is index-aligned with the data rows.
func RowsFromRecords(records [][]string) []RawRow {
	if len(records) < 2 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = normalizeHeader(h)
	}
	rows := make([]RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(RawRow, len(header))
		for j, key := range header {
			if key == "" {
				continue
			}
			val := ""
			if j < len(rec) {
				val = strings.TrimSpace(rec[j])
			}
			if val != "" {
				row[key] = val
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// pick returns the first non-empty value among the aliases of field.
func pick(raw RawRow, field string) string {
	for _, alias := range fieldAliases[field] {
		if v, ok := raw[alias]; ok && v != "" {
			return v
		}
	}
	return ""
}

// digitsOnly strips everything that is not 0-9.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// titleCase capitalizes each whitespace-delimited token.
func titleCase(s string) string {
	parts := strings.Fields(strings.ToLower(s))
	for i, p := range parts {
		r := []rune(p)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// Normalize maps one raw spreadsheet row into a CandidateRecord.
// It never fails: every problem becomes an entry in Errors (blocking)
// or Warnings (informational) so the whole batch is scored in one pass.
func Normalize(raw RawRow, line int) CandidateRecord {
	rec := CandidateRecord{Line: line}

	nome := strings.TrimSpace(pick(raw, "nome"))
	if nome == "" {
		rec.Errors = append(rec.Errors, ValidationError{
			Line: line, Field: "nome", Message: constants.MsgNomeObrigatorio,
		})
	} else {
		rec.Nome = titleCase(nome)
	}

	if email := strings.TrimSpace(pick(raw, "email")); email != "" {
		if emailRe.MatchString(email) {
			rec.Email = strings.ToLower(email)
		} else {
			rec.Errors = append(rec.Errors, ValidationError{
				Line: line, Field: "email", Value: email, Message: constants.MsgEmailInvalido,
			})
		}
	}

	// Phones with fewer than 10 digits are nulled, not rejected: a
	// cosmetic field must not sink the row.
	if tel := digitsOnly(pick(raw, "telefone")); len(tel) >= 10 {
		rec.Telefone = tel
	}

	if doc := pick(raw, "cpf_cnpj"); doc != "" {
		digits := digitsOnly(doc)
		if len(digits) == 11 || len(digits) == 14 {
			rec.CpfCnpj = digits
		} else {
			rec.Errors = append(rec.Errors, ValidationError{
				Line: line, Field: "cpf_cnpj", Value: doc, Message: constants.MsgCpfCnpjInvalido,
			})
		}
	}

	rec.Endereco = buildEndereco(raw)

	numero := strings.TrimSpace(pick(raw, "numero_processo"))
	tipo := strings.TrimSpace(pick(raw, "tipo_processo"))
	if numero != "" && tipo != "" {
		rec.ProcessoNumero = numero
		rec.ProcessoTipo = tipo
	} else if numero != "" || tipo != "" {
		// Half-filled process pair: dropped, surfaced as a warning.
		rec.Warnings = append(rec.Warnings, ValidationError{
			Line: line, Field: "processo", Value: numero + tipo,
			Message: constants.MsgProcessoIncompleto,
		})
	}

	return rec
}

// buildEndereco concatenates the address sub-fields when the sheet
// splits them, otherwise passes the single endereco column through.
func buildEndereco(raw RawRow) string {
	if full := pick(raw, "endereco"); full != "" {
		return full
	}
	parts := []string{}
	for _, f := range []string{"rua", "bairro", "cidade", "cep"} {
		if v := pick(raw, f); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
