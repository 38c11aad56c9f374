// Package nfe contiene validaciones de dominio previas a la generación de NF-e/NFC-e.
// El generador XML no valida: los casos de uso llaman a estas funciones antes de construir.
package nfe

import (
	"errors"
	"fmt"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

// ErrInvalidSale agrupa errores de validación de la venta.
var ErrInvalidSale = errors.New("venta inválida para NF-e")

// ErrInvalidIssuer agrupa errores de validación de la empresa emisora.
var ErrInvalidIssuer = errors.New("emisor inválido para NF-e")

// maxDocumentNumberDigits ancho del campo nNF en la clave de acceso.
const maxDocumentNumberDigits = 9

// ValidateSale valida los campos numéricos obligatorios de la venta (nNF y total),
// sus ítems y, si hay cliente identificado, la longitud de su documento.
func ValidateSale(sale *entity.Sale, client *entity.Client) error {
	if sale == nil {
		return fmt.Errorf("%w: venta nula", ErrInvalidSale)
	}
	var errs []error

	num := sale.DocumentNumber
	switch {
	case num == "":
		errs = append(errs, errors.New("número de documento vacío"))
	case nfe.OnlyDigits(num) != num:
		errs = append(errs, fmt.Errorf("número de documento %q no es numérico", num))
	case len(num) > maxDocumentNumberDigits:
		errs = append(errs, fmt.Errorf("número de documento %q supera %d dígitos", num, maxDocumentNumberDigits))
	}

	if sale.Total.IsNegative() {
		errs = append(errs, fmt.Errorf("total (%s) no puede ser negativo", sale.Total.String()))
	}
	if sale.Discount.IsNegative() {
		errs = append(errs, fmt.Errorf("descuento (%s) no puede ser negativo", sale.Discount.String()))
	}
	if !sale.PaymentMethod.Valid() {
		errs = append(errs, fmt.Errorf("forma de pago %q desconocida", sale.PaymentMethod))
	}

	if len(sale.Items) == 0 {
		errs = append(errs, errors.New("la venta debe tener al menos un ítem"))
	}
	for i, it := range sale.Items {
		if !it.Quantity.IsPositive() {
			errs = append(errs, fmt.Errorf("ítem %d: cantidad (%s) debe ser mayor que cero", i+1, it.Quantity.String()))
		}
		if it.UnitPrice.IsNegative() || it.Subtotal.IsNegative() {
			errs = append(errs, fmt.Errorf("ítem %d: precio y subtotal no pueden ser negativos", i+1))
		}
	}

	if client != nil {
		if n := len(nfe.OnlyDigits(client.Document)); n != 11 && n != 14 {
			errs = append(errs, fmt.Errorf("documento del cliente debe tener 11 (CPF) o 14 (CNPJ) dígitos, tiene %d", n))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidSale}, errs...)...)
	}
	return nil
}

// ValidateIssuer valida los datos mínimos de la empresa emisora: CNPJ con dígitos
// verificadores correctos, razón social y régimen tributario conocido.
func ValidateIssuer(company *entity.Company) error {
	if company == nil {
		return fmt.Errorf("%w: empresa nula", ErrInvalidIssuer)
	}
	var errs []error
	if !nfe.ValidCNPJ(company.CNPJ) {
		errs = append(errs, fmt.Errorf("CNPJ %q inválido", company.CNPJ))
	}
	if company.LegalName == "" {
		errs = append(errs, errors.New("razón social vacía"))
	}
	switch company.TaxRegime {
	case nfe.CRTSimplesNacional, nfe.CRTSimplesExcess, nfe.CRTNormal:
	default:
		errs = append(errs, fmt.Errorf("régimen tributario (CRT) %q desconocido", company.TaxRegime))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidIssuer}, errs...)...)
	}
	return nil
}
