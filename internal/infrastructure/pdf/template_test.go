package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-lending/internal/domain/contract"
)

func sampleData() contract.Data {
	return contract.Data{
		Number:   "01J9ZK",
		IssuedAt: time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		Borrower: contract.Party{FullName: "Ana <Ruiz>", Code: "2019001", Email: "ana@uni.edu", Program: "Physics"},
		Administrator: &contract.Party{
			FullName: "Luis Gómez",
		},
		DepartmentName: "Physics Lab",
		ResourceCode:   "OSC-01",
		ResourceName:   "Oscilloscope",
		ResourceType:   "equipment",
		LoanDate:       time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(sampleData())
	require.NoError(t, err)

	assert.Contains(t, html, "No. 01J9ZK")
	assert.Contains(t, html, "Oscilloscope (OSC-01)")
	assert.Contains(t, html, "2025-03-10")
	assert.Contains(t, html, "Luis Gómez")
	assert.Contains(t, html, "Physics</td>")
	// borrower input is escaped
	assert.Contains(t, html, "Ana &lt;Ruiz&gt;")
	assert.NotContains(t, html, "extends loan")
}

func TestRenderHTML_ExtensionAndNoAdmin(t *testing.T) {
	d := sampleData()
	d.Administrator = nil
	d.Borrower.Program = ""
	d.ExtendsLoanID = "abc123"

	html, err := RenderHTML(d)
	require.NoError(t, err)
	assert.Contains(t, html, "extends loan abc123")
	assert.NotContains(t, html, "<th>Program</th>")
}

func TestRenderHTML_SignaturesAndSeal(t *testing.T) {
	html, err := RenderHTML(sampleData())
	require.NoError(t, err)
	assert.NotContains(t, html, "<img")

	d := sampleData()
	d.Borrower.SignatureURL = "https://files.uni.edu/sig/ana.png"
	d.Administrator.SignatureURL = "https://files.uni.edu/sig/luis.png"
	d.SealURL = "https://uni.edu/seal.png"
	html, err = RenderHTML(d)
	require.NoError(t, err)
	assert.Contains(t, html, `<img src="https://files.uni.edu/sig/ana.png" alt="Borrower signature">`)
	assert.Contains(t, html, `<img src="https://files.uni.edu/sig/luis.png" alt="Administrator signature">`)
	assert.Contains(t, html, `<img src="https://uni.edu/seal.png" alt="University seal">`)

	d.SealURL = "javascript:alert(1)"
	html, err = RenderHTML(d)
	require.NoError(t, err)
	assert.NotContains(t, html, "javascript:")
}

func TestChromeRenderer_CancelledContext(t *testing.T) {
	r := NewChromeRenderer(ChromeConfig{RemoteURL: "ws://127.0.0.1:1", Timeout: time.Second})
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Render(ctx, sampleData())
	assert.Error(t, err)
}
