package extract

import (
	"strings"
	"testing"
)

func TestParseHeader(t *testing.T) {
	text := "MINISTÉRIO DA FAZENDA\n" +
		"MUNICÍPIO DE São Paulo \n" +
		"CNPJ: 12.345.678/0001-90\n" +
		"Nº Processo/Dossiê 10880.720001/2021-33\n" +
		"SALDO DEVEDOR TOTAL 5.000,00\n"

	h := ParseHeader(text)
	if h.Municipality != "SÃO PAULO" {
		t.Errorf("Expected SÃO PAULO, got %q", h.Municipality)
	}
	if h.CNPJ != testCNPJ {
		t.Errorf("Expected %s, got %q", testCNPJ, h.CNPJ)
	}
	if h.Dossier != "10880.720001/2021-33" {
		t.Errorf("Unexpected dossier %q", h.Dossier)
	}
	if h.Total != "5.000,00" {
		t.Errorf("Unexpected total %q", h.Total)
	}
}

func TestParseHeaderDefaults(t *testing.T) {
	h := ParseHeader("documento sem cabeçalho")
	if h.Municipality != UnknownMunicipality {
		t.Errorf("Expected %s, got %q", UnknownMunicipality, h.Municipality)
	}
	if h.CNPJ != "" || h.Dossier != "" || h.Total != "" {
		t.Errorf("Expected empty fields, got %+v", h)
	}
}

func TestParseHeaderPlainLabels(t *testing.T) {
	h := ParseHeader("MUNICIPIO DE CAMPINAS\nNo Processo/Dossie 10880.000001/2020-01.\nSALDO DEVEDOR TOTAL: R$ 1.234,56.")
	if h.Municipality != "CAMPINAS" {
		t.Errorf("Expected CAMPINAS, got %q", h.Municipality)
	}
	if h.Dossier != "10880.000001/2020-01" {
		t.Errorf("Unexpected dossier %q", h.Dossier)
	}
	if h.Total != "1.234,56" {
		t.Errorf("Unexpected total %q", h.Total)
	}
}

func TestFilenameConvention(t *testing.T) {
	testCases := map[string]string{
		"saldo-CAMPINAS-2024.pdf":  "CAMPINAS",
		"/tmp/rfb-santo_andre.pdf": "SANTO ANDRE",
		"relatorio.pdf":            "",
		"rfb-sorocaba-parte-2.pdf": "SOROCABA",
	}

	for name, want := range testCases {
		if got := (FilenameConvention{}).Municipality(name); got != want {
			t.Errorf("Municipality(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := fold("MUNICÍPIO Dossiê"); got != "municipio dossie" {
		t.Errorf("Unexpected fold: %q", got)
	}
}

func TestParseHeaderSkipsDottedProcessNumber(t *testing.T) {
	h := ParseHeader("No Processo/Dossiê 10880.720.001/2021-33\nCNPJ: 12.345.678/0001-90\n")
	if h.CNPJ != testCNPJ {
		t.Errorf("Expected %s, got %q", testCNPJ, h.CNPJ)
	}
	if h.Dossier != "10880.720.001/2021-33" {
		t.Errorf("Unexpected dossier %q", h.Dossier)
	}
}

func TestStripCNPJKeepsProcessNumbers(t *testing.T) {
	got := stripCNPJ("10880.123.456/2020-11 98.765.432/0001-10 12.345.678/0001-90")
	if !strings.Contains(got, "10880.123.456/2020-11") {
		t.Errorf("Expected the process number to survive, got %q", got)
	}
	if strings.Contains(got, "0001") {
		t.Errorf("Expected both CNPJs removed, got %q", got)
	}
}
