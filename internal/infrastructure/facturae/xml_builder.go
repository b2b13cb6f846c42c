// Package facturae construye el XML Facturae 3.2.2 (formato de factura
// electrónica de la administración española, Orden PRE/2971/2007). El
// documento sale sin firmar.
package facturae

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/fiscal"
)

// Namespaces oficiales Facturae 3.2.2.
const (
	nsFacturae = "http://www.facturae.gob.es/formato/Versiones/Facturaev3_2_2.xml"
	nsDs       = "http://www.w3.org/2000/09/xmldsig#"

	schemaVersion = "3.2.2"

	// Códigos de impuesto del esquema: 01 = IVA, 04 = IRPF.
	taxTypeIVA  = "01"
	taxTypeIRPF = "04"
)

// XMLBuilderService construye documentos Facturae. Implementa
// billing.FacturaeBuilder.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build genera el []byte del documento fe:Facturae de una sola factura.
func (s *XMLBuilderService) Build(
	inv *entity.Invoice,
	issuer *entity.User,
	client *entity.Client,
	lines []*entity.InvoiceLine,
	taxes []fiscal.AdditionalTax,
) ([]byte, error) {
	if inv == nil || issuer == nil || client == nil {
		return nil, fmt.Errorf("facturae: faltan factura, emisor o cliente")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("fe:Facturae")
	root.CreateAttr("xmlns:ds", nsDs)
	root.CreateAttr("xmlns:fe", nsFacturae)

	s.writeFileHeader(root, inv)
	s.writeParties(root, issuer, client)
	s.writeInvoice(root, inv, lines, taxes)

	doc.Indent(2)
	return doc.WriteToBytes()
}

// writeFileHeader: FileHeader con el lote de una sola factura.
func (s *XMLBuilderService) writeFileHeader(root *etree.Element, inv *entity.Invoice) {
	fh := root.CreateElement("FileHeader")
	fh.CreateElement("SchemaVersion").SetText(schemaVersion)
	fh.CreateElement("Modality").SetText("I") // individual
	fh.CreateElement("InvoiceIssuerType").SetText("EM")

	batch := fh.CreateElement("Batch")
	batch.CreateElement("BatchIdentifier").SetText(inv.ID)
	batch.CreateElement("InvoicesCount").SetText("1")
	for _, name := range []string{"TotalInvoicesAmount", "TotalOutstandingAmount", "TotalExecutableAmount"} {
		batch.CreateElement(name).CreateElement("TotalAmount").SetText(money(inv.Total))
	}
	batch.CreateElement("InvoiceCurrencyCode").SetText("EUR")
}

// writeParties: emisor (persona física) y cliente (persona jurídica).
func (s *XMLBuilderService) writeParties(root *etree.Element, issuer *entity.User, client *entity.Client) {
	parties := root.CreateElement("Parties")

	seller := parties.CreateElement("SellerParty")
	sellerTax := seller.CreateElement("TaxIdentification")
	sellerTax.CreateElement("PersonTypeCode").SetText("F") // física: autónomo
	sellerTax.CreateElement("ResidenceTypeCode").SetText("R")
	sellerTax.CreateElement("TaxIdentificationNumber").SetText(issuer.TaxID)
	individual := seller.CreateElement("Individual")
	individual.CreateElement("Name").SetText(issuer.Name)
	writeAddress(individual, issuer.Address)

	buyer := parties.CreateElement("BuyerParty")
	buyerTax := buyer.CreateElement("TaxIdentification")
	buyerTax.CreateElement("PersonTypeCode").SetText("J")
	buyerTax.CreateElement("ResidenceTypeCode").SetText("R")
	buyerTax.CreateElement("TaxIdentificationNumber").SetText(client.TaxID)
	legal := buyer.CreateElement("LegalEntity")
	legal.CreateElement("CorporateName").SetText(client.Name)
	writeAddress(legal, client.Address)
}

// writeInvoice: cabecera, impuestos, totales y líneas.
func (s *XMLBuilderService) writeInvoice(root *etree.Element, inv *entity.Invoice, lines []*entity.InvoiceLine, taxes []fiscal.AdditionalTax) {
	invoices := root.CreateElement("Invoices")
	el := invoices.CreateElement("Invoice")

	header := el.CreateElement("InvoiceHeader")
	header.CreateElement("InvoiceNumber").SetText(inv.Number)
	header.CreateElement("InvoiceDocumentType").SetText("FC") // factura completa
	header.CreateElement("InvoiceClass").SetText("OO")        // original

	issueData := el.CreateElement("InvoiceIssueData")
	issueData.CreateElement("IssueDate").SetText(inv.IssueDate.Format("2006-01-02"))
	issueData.CreateElement("InvoiceCurrencyCode").SetText("EUR")
	issueData.CreateElement("TaxCurrencyCode").SetText("EUR")
	issueData.CreateElement("LanguageName").SetText("es")

	// Repercutidos (IVA) y retenciones (IRPF) salen de los impuestos
	// adicionales; el importe retenido se declara en positivo.
	var outputsTotal, withheldTotal decimal.Decimal
	outputs := el.CreateElement("TaxesOutputs")
	var withheld *etree.Element
	for _, t := range taxes {
		contribution := t.Contribution(inv.Subtotal).Round(2)
		switch {
		case contribution.IsNegative():
			if withheld == nil {
				withheld = el.CreateElement("TaxesWithheld")
			}
			writeTax(withheld, taxTypeIRPF, t, inv.Subtotal, contribution.Abs())
			withheldTotal = withheldTotal.Add(contribution.Abs())
		default:
			code := taxTypeIVA
			if !t.IsVAT() {
				code = "05" // otros
			}
			writeTax(outputs, code, t, inv.Subtotal, contribution)
			outputsTotal = outputsTotal.Add(contribution)
		}
	}

	totals := el.CreateElement("InvoiceTotals")
	totals.CreateElement("TotalGrossAmount").SetText(money(inv.Subtotal))
	totals.CreateElement("TotalGrossAmountBeforeTaxes").SetText(money(inv.Subtotal))
	totals.CreateElement("TotalTaxOutputs").SetText(money(outputsTotal))
	totals.CreateElement("TotalTaxesWithheld").SetText(money(withheldTotal))
	totals.CreateElement("InvoiceTotal").SetText(money(inv.Total))
	totals.CreateElement("TotalOutstandingAmount").SetText(money(inv.Total))
	totals.CreateElement("TotalExecutableAmount").SetText(money(inv.Total))

	items := el.CreateElement("Items")
	for _, l := range lines {
		line := items.CreateElement("InvoiceLine")
		line.CreateElement("ItemDescription").SetText(l.Description)
		line.CreateElement("Quantity").SetText(l.Quantity.String())
		line.CreateElement("UnitPriceWithoutTax").SetText(money(l.UnitPrice))
		line.CreateElement("TotalCost").SetText(money(l.Subtotal))
		line.CreateElement("GrossAmount").SetText(money(l.Subtotal))
	}
}

// writeTax: un bloque Tax con tipo, base y cuota.
func writeTax(parent *etree.Element, typeCode string, t fiscal.AdditionalTax, base, amount decimal.Decimal) {
	tax := parent.CreateElement("Tax")
	tax.CreateElement("TaxTypeCode").SetText(typeCode)
	rate := t.Amount.Abs()
	if !t.IsPercentage {
		rate = decimal.Zero
	}
	tax.CreateElement("TaxRate").SetText(money(rate))
	tax.CreateElement("TaxableBase").CreateElement("TotalAmount").SetText(money(base.Round(2)))
	tax.CreateElement("TaxAmount").CreateElement("TotalAmount").SetText(money(amount))
}

// writeAddress: dirección mínima en España. El esquema exige los cuatro
// campos aunque el perfil del usuario solo guarde una línea de dirección.
func writeAddress(parent *etree.Element, address string) {
	addr := parent.CreateElement("AddressInSpain")
	if address == "" {
		address = "-"
	}
	addr.CreateElement("Address").SetText(address)
	addr.CreateElement("PostCode").SetText("00000")
	addr.CreateElement("Town").SetText("-")
	addr.CreateElement("Province").SetText("-")
	addr.CreateElement("CountryCode").SetText("ESP")
}

// money formatea un importe con dos decimales y punto decimal.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
