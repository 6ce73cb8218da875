package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

func TestGenerateActivityReport(t *testing.T) {
	g := NewMarotoReportGenerator()
	recs := []*entity.ActivityRecord{
		{EventID: "e-2", ActivityType: "SELL", ActivityValue: "1500", ItemID: 1, ActivityTime: time.Now()},
		{EventID: "e-1", ActivityType: "ADD", ActivityValue: "2000", ItemID: 1, ActivityTime: time.Now().Add(-time.Hour)},
	}

	b, err := g.GenerateActivityReport(1, "Lápiz HB", recs)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateActivityReport_SinRegistros(t *testing.T) {
	b, err := NewMarotoReportGenerator().GenerateActivityReport(9, "Vacío", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestPrinterFormateaMiles(t *testing.T) {
	g := NewMarotoReportGenerator()
	assert.Equal(t, "1.234.567", g.printer.Sprintf("%d", 1234567))
}
