package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/brettbedarf/filetree"
)

// MockOperator implements filetree.Operator for testing across packages
type MockOperator struct {
	mock.Mock
}

var _ filetree.Operator = (*MockOperator)(nil)

func (m *MockOperator) InsertDir(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockOperator) InsertFile(path string, contents []byte, length int) error {
	args := m.Called(path, contents, length)
	return args.Error(0)
}

func (m *MockOperator) RmDir(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockOperator) RmFile(path string) error {
	args := m.Called(path)
	return args.Error(0)
}
