package nfe

import (
	"bytes"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/ucarion/c14n"
)

// Namespaces y algoritmos XMLDSig del bloque de firma.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA1         = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	AlgSHA1            = "http://www.w3.org/2000/09/xmldsig#sha1"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// Longitudes fijas de los valores simulados (base64 de 20 y 128 bytes, sin relleno).
const (
	digestValueLength    = 28
	signatureValueLength = 172
)

// PlaceholderCertificate certificado X509 de relleno (no se parsean certificados reales).
const PlaceholderCertificate = "MIIE3zCCA8egAwIBAgIQALVl9Vlx9Vlx9Vlx9Vlx9TANBgkqhkiG9w0BAQsFADCB..."

const closingTag = "</NFe>"

var referenceIDPattern = regexp.MustCompile(`Id="(NFe\d+)"`)

// SignerOption configura el EnvelopeSigner.
type SignerOption func(*EnvelopeSigner)

// WithEntropy reemplaza la fuente de bytes aleatorios de DigestValue y SignatureValue.
func WithEntropy(r io.Reader) SignerOption {
	return func(s *EnvelopeSigner) { s.entropy = r }
}

// WithDocumentDigest usa como DigestValue el SHA-1 (base64) del documento canonicalizado
// en lugar de un valor aleatorio. SignatureValue sigue siendo simulado.
func WithDocumentDigest() SignerOption {
	return func(s *EnvelopeSigner) { s.documentDigest = true }
}

// EnvelopeSigner inserta un bloque <Signature> con valores simulados antes de </NFe>.
// No realiza firma criptográfica real ni valida si el documento ya estaba firmado.
type EnvelopeSigner struct {
	entropy        io.Reader
	documentDigest bool
}

// NewEnvelopeSigner crea el firmador simulado con entropía de crypto/rand.
func NewEnvelopeSigner(opts ...SignerOption) *EnvelopeSigner {
	s := &EnvelopeSigner{entropy: rand.Reader}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign devuelve el XML con el bloque de firma insertado inmediatamente antes del primer </NFe>
// (o del último tag de cierre si no existe). Nunca falla: sin Id localizable, la
// Reference se emite con URI vacía.
func (s *EnvelopeSigner) Sign(xmlDoc string) string {
	var uri string
	if m := referenceIDPattern.FindStringSubmatch(xmlDoc); m != nil {
		uri = "#" + m[1]
	}

	digest := s.randomToken(digestValueLength)
	if s.documentDigest {
		digest = documentDigest(xmlDoc)
	}
	block := BuildSignatureBlock(uri, digest, s.randomToken(signatureValueLength))

	return insertBefore(xmlDoc, block)
}

// BuildSignatureBlock arma el nodo <Signature> (XMLDSig enveloped, C14N, rsa-sha1).
func BuildSignatureBlock(uri, digestValue, signatureValue string) string {
	var sb strings.Builder
	sb.WriteString(`<Signature xmlns="` + NamespaceDS + `">`)
	sb.WriteString(`<SignedInfo>`)
	sb.WriteString(`<CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<SignatureMethod Algorithm="` + AlgRSASHA1 + `"/>`)
	sb.WriteString(`<Reference URI="` + uri + `">`)
	sb.WriteString(`<Transforms><Transform Algorithm="` + TransformEnveloped + `"/>`)
	sb.WriteString(`<Transform Algorithm="` + AlgC14N + `"/></Transforms>`)
	sb.WriteString(`<DigestMethod Algorithm="` + AlgSHA1 + `"/>`)
	sb.WriteString(`<DigestValue>` + digestValue + `</DigestValue>`)
	sb.WriteString(`</Reference>`)
	sb.WriteString(`</SignedInfo>`)
	sb.WriteString(`<SignatureValue>` + signatureValue + `</SignatureValue>`)
	sb.WriteString(`<KeyInfo><X509Data><X509Certificate>` + PlaceholderCertificate + `</X509Certificate></X509Data></KeyInfo>`)
	sb.WriteString(`</Signature>`)
	return sb.String()
}

func insertBefore(xmlDoc, block string) string {
	idx := strings.Index(xmlDoc, closingTag)
	if idx < 0 {
		idx = strings.LastIndex(xmlDoc, "</")
	}
	if idx < 0 {
		return xmlDoc + block
	}
	return xmlDoc[:idx] + block + xmlDoc[idx:]
}

// randomToken genera n caracteres base64 a partir de bytes aleatorios.
// Un error de lectura deja los bytes en cero: el bloque se emite igual.
func (s *EnvelopeSigner) randomToken(n int) string {
	buf := make([]byte, (n*3+3)/4)
	_, _ = io.ReadFull(s.entropy, buf)
	token := base64.StdEncoding.EncodeToString(buf)
	return token[:n]
}

// documentDigest SHA-1 en base64 del documento canonicalizado (C14N); si el documento no
// se puede canonicalizar se usa el texto tal cual.
func documentDigest(xmlDoc string) string {
	data := []byte(xmlDoc)
	if canonical, err := canonicalizeXML(data); err == nil {
		data = canonical
	}
	sum := sha1.Sum(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
