package epidemic

import (
	"testing"

	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

func newTestRand(seed int64) *utils.RandSource {
	return utils.NewRandSource(seed)
}

// infectedIndex returns the index of the single infected agent, failing
// the test when the count is not exactly one.
func infectedIndex(t *testing.T, pop *Population) int {
	t.Helper()
	index := -1
	for i := 0; i < pop.Len(); i++ {
		if pop.State(i) != models.StateInfected {
			continue
		}
		if index != -1 {
			t.Fatalf("expected a single infected agent, found several")
		}
		index = i
	}
	if index == -1 {
		t.Fatalf("expected a single infected agent, found none")
	}
	return index
}
