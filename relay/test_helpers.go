package relay

import "github.com/stretchr/testify/mock"

// MatchBody creates a custom matcher for delivery bodies in mocks
func MatchBody(matcher func([]byte) bool) interface{} {
	return mock.MatchedBy(matcher)
}
