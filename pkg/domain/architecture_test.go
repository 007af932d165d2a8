package domain_test

import (
	"testing"

	"lifetrack/testutil"
)

func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "public domain types must not depend on internal packages")
}
