package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/franquicias-api/internal/domain"
)

func TestResult_ClasificaErroresDeDominio(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "not_found", Result(domain.BranchNotFound("b1")))
	assert.Equal(t, "duplicate", Result(fmt.Errorf("crear: %w", &domain.DuplicateNameError{Name: "X"})))
	assert.Equal(t, "conflict", Result(domain.ErrConflict))
	assert.Equal(t, "error", Result(errors.New("boom")))
}

func TestObserveMutation_IncrementaContador(t *testing.T) {
	before := testutil.ToFloat64(MutationsTotal.WithLabelValues("test_op", "ok"))
	ObserveMutation("test_op", time.Now(), nil)
	assert.Equal(t, before+1, testutil.ToFloat64(MutationsTotal.WithLabelValues("test_op", "ok")))
}
