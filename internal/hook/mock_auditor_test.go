package hook

import (
	"github.com/dgerlanc/writeguard/internal/audit"
	"github.com/stretchr/testify/mock"
)

// mockAuditor is a mock implementation of Auditor.
type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) Log(entry audit.Entry) error {
	args := m.Called(entry)
	return args.Error(0)
}
