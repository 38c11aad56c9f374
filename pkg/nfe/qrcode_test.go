package nfe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

func TestConsumerQRCodeURL_Homologacion(t *testing.T) {
	url, err := nfe.ConsumerQRCodeURL(nfe.QRCodeParams{
		AccessKey:   testKey,
		Environment: nfe.EnvironmentStaging,
		CSCID:       "000001",
		CSC:         "CSCTESTE123",
	})
	require.NoError(t, err)

	// SHA-1("<chave>|2|2|1" + "CSCTESTE123") en hex mayúsculas.
	want := nfe.QRCodeURLStaging + "?p=" + testKey + "|2|2|1|7360B5310F858FFF9C8BC12DDCAEA8E63C30C15B"
	assert.Equal(t, want, url)
}

func TestConsumerQRCodeURL_BaseURLPersonalizada(t *testing.T) {
	url, err := nfe.ConsumerQRCodeURL(nfe.QRCodeParams{
		AccessKey:   testKey,
		Environment: nfe.EnvironmentProduction,
		CSCID:       "2",
		CSC:         "X",
		BaseURL:     "https://qr.example.com/nfce",
	})
	require.NoError(t, err)
	assert.Contains(t, url, "https://qr.example.com/nfce?p="+testKey+"|2|1|2|")
}

func TestConsumerQRCodeURL_SinCSC(t *testing.T) {
	_, err := nfe.ConsumerQRCodeURL(nfe.QRCodeParams{AccessKey: testKey, Environment: "2"})
	require.Error(t, err)

	_, err = nfe.ConsumerQRCodeURL(nfe.QRCodeParams{AccessKey: "123", CSC: "x", CSCID: "1"})
	require.Error(t, err)
}
