package git

import "context"

// MockHistoryReader is a test double for HistoryReader.
// It allows tests to provide predefined branch data without needing a real Git repository.
type MockHistoryReader struct {
	Branches []BranchHistory
	Remote   string
	Error    error
}

// NewMockHistoryReader creates a new MockHistoryReader with the given data.
func NewMockHistoryReader(branches []BranchHistory, err error) *MockHistoryReader {
	return &MockHistoryReader{
		Branches: branches,
		Error:    err,
	}
}

// ReadBranches returns the predefined branches or error.
func (m *MockHistoryReader) ReadBranches(_ context.Context) ([]BranchHistory, error) {
	return m.Branches, m.Error
}

// RemoteURL returns the predefined remote.
func (m *MockHistoryReader) RemoteURL(_ context.Context) (string, error) {
	return m.Remote, nil
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*MockHistoryReader)(nil)
