package memory_test

import (
	"testing"

	"github.com/percursohq/percurso/pkg/adapters/memory"
	"github.com/percursohq/percurso/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}
