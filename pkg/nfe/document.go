package nfe

import "strings"

// OnlyDigits devuelve solo los dígitos ASCII de s.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsCNPJ indica si el documento (solo dígitos) corresponde a un CNPJ: más de 11 dígitos.
func IsCNPJ(document string) bool {
	return len(OnlyDigits(document)) > 11
}

// ValidCPF valida longitud y dígitos verificadores de un CPF (con o sin máscara).
func ValidCPF(cpf string) bool {
	d := OnlyDigits(cpf)
	if len(d) != 11 || allSame(d) {
		return false
	}
	return cpfDigit(d[:9], 10) == d[9] && cpfDigit(d[:10], 11) == d[10]
}

func cpfDigit(base string, weight int) byte {
	var sum int
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (weight - i)
	}
	r := (sum * 10) % 11
	if r == 10 {
		r = 0
	}
	return byte('0' + r)
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidCNPJ valida longitud y dígitos verificadores de un CNPJ (con o sin máscara).
func ValidCNPJ(cnpj string) bool {
	d := OnlyDigits(cnpj)
	if len(d) != 14 || allSame(d) {
		return false
	}
	return cnpjDigit(d[:12], cnpjWeights1) == d[12] && cnpjDigit(d[:13], cnpjWeights2) == d[13]
}

func cnpjDigit(base string, weights []int) byte {
	var sum int
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + (11 - r))
}

func allSame(s string) bool {
	return strings.Count(s, s[:1]) == len(s)
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
