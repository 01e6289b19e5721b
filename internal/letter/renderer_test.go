package letter

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swissshield/internal/letter/layout"
	"swissshield/internal/letter/pdf"
	dErrors "swissshield/pkg/domain-errors"
)

func TestRenderProducesTwoPagePDF(t *testing.T) {
	r := NewRenderer(GermanOnly{}, WithClock(fixedClock))
	out, err := r.Render(context.Background(), sampleSubmission(), sampleAddress(t))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/Count 2")
	assert.True(t, bytes.HasSuffix(bytes.TrimSpace(out), []byte("%%EOF")))
}

func TestRenderWithoutPayrollPage(t *testing.T) {
	r := NewRenderer(GermanOnly{}, WithClock(fixedClock), WithPayrollPage(false))
	out, err := r.Render(context.Background(), sampleSubmission(), sampleAddress(t))
	require.NoError(t, err)
	assert.Contains(t, string(out), "/Count 1")
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer(GermanOnly{}, WithClock(fixedClock))
	addr := sampleAddress(t)

	first, err := r.Render(context.Background(), sampleSubmission(), addr)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), sampleSubmission(), addr)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other := sampleSubmission()
	other.FullName = "Beat Beispiel"
	third, err := r.Render(context.Background(), other, addr)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestRenderConcurrentCallsAreIndependent(t *testing.T) {
	r := NewRenderer(GermanOnly{}, WithClock(fixedClock))
	addr := sampleAddress(t)
	want, err := r.Render(context.Background(), sampleSubmission(), addr)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Render(context.Background(), sampleSubmission(), addr)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(GermanOnly{}, WithClock(fixedClock))
	out, err := r.Render(ctx, sampleSubmission(), sampleAddress(t))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestRenderKeepsNamesOutsideLatin1(t *testing.T) {
	r := NewRenderer(GermanOnly{}, WithClock(fixedClock))
	sub := sampleSubmission()
	sub.FullName = "Łukasz Żółć"

	out, err := r.Render(context.Background(), sub, sampleAddress(t))
	require.NoError(t, err)

	doc := r.Compose(sub, sampleAddress(t), fixedClock())
	sender, ok := doc.Pages[0].Find(layout.KindSender)
	require.True(t, ok)
	assert.Equal(t, "Łukasz Żółć", sender.Lines[0].Text)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderFailsOnUnprintableName(t *testing.T) {
	r := NewRenderer(GermanOnly{}, WithClock(fixedClock))
	sub := sampleSubmission()
	sub.FullName = "山田 太郎"

	out, err := r.Render(context.Background(), sub, sampleAddress(t))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	var unprintable *pdf.UnprintableError
	assert.ErrorAs(t, err, &unprintable)
	assert.ErrorAs(t, sub.CheckPrintable(), &unprintable)
}
