package tenant_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/dmolina/building-table-reservation/internal/tenant"
)

func TestNormalize(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		in, want string
	}{
		{"vow", "vow"},
		{"Torre_X", "torre-x"},
		{"torre x", "torre-x"},
		{"TORRE-X", "torre-x"},
		{"torre  __  x", "torre-x"},
		{"  vow  ", "vow"},
		{"_vow_", "vow"},
		{"", ""},
		{"__", ""},
	}
	for _, tc := range cases {
		c.Assert(tenant.Normalize(tc.in), qt.Equals, tc.want, qt.Commentf("input %q", tc.in))
	}
}

func TestResolveAcceptsAllSpellings(t *testing.T) {
	c := qt.New(t)

	reg, err := tenant.New([]tenant.Tenant{
		{ID: "vow", DBHost: "db1", DBPort: "3306", DBUser: "app", DBName: "vow"},
		{ID: "Torre_X", DBHost: "db2", DBPort: "3306", DBUser: "app", DBName: "torre_x"},
	})
	c.Assert(err, qt.IsNil)

	for _, seg := range []string{"Torre_X", "torre x", "torre-x", "TORRE-X"} {
		got, err := reg.Resolve(seg)
		c.Assert(err, qt.IsNil, qt.Commentf("segment %q", seg))
		c.Assert(got.ID, qt.Equals, "torre-x")
		c.Assert(got.DBHost, qt.Equals, "db2")
	}

	_, err = reg.Resolve("nowhere")
	c.Assert(err, qt.ErrorIs, tenant.ErrTenantNotFound)
}

func TestNewRejectsDuplicatesAndEmpty(t *testing.T) {
	c := qt.New(t)

	// Two spellings of the same canonical name are one building twice.
	_, err := tenant.New([]tenant.Tenant{{ID: "Torre_X"}, {ID: "torre-x"}})
	c.Assert(err, qt.ErrorMatches, `duplicate building "torre-x"`)

	_, err = tenant.New([]tenant.Tenant{{ID: "  "}})
	c.Assert(err, qt.ErrorMatches, `building with empty identifier .*`)
}

func TestIDsSorted(t *testing.T) {
	c := qt.New(t)

	reg, err := tenant.New([]tenant.Tenant{{ID: "vow"}, {ID: "torre_x"}, {ID: "anexo"}})
	c.Assert(err, qt.IsNil)
	c.Assert(reg.IDs(), qt.DeepEquals, []string{"anexo", "torre-x", "vow"})
}
