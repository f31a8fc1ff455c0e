package testutil

import (
	"github.com/google/uuid"
)

// Fixed identifiers for deterministic tests.
var (
	TestTenantID      = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestUnderwriterID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestBrokerID      = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)
