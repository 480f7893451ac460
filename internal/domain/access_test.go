package domain

import "testing"

func TestAccessListAuthorization(t *testing.T) {
	a := NewAccessList([]int64{10, 20}, []int64{30})

	if !a.IsAuthorized(10) || !a.IsAuthorized(20) {
		t.Fatal("whitelisted users must be authorized")
	}
	if !a.IsAuthorized(30) {
		t.Fatal("admins must be implicitly authorized")
	}
	if a.IsAuthorized(40) {
		t.Fatal("unlisted user must not be authorized")
	}
}

func TestAccessListAdmin(t *testing.T) {
	a := NewAccessList([]int64{10}, []int64{30})

	if a.IsAdmin(10) {
		t.Fatal("whitelisted user must not be admin")
	}
	if !a.IsAdmin(30) {
		t.Fatal("admin user not recognized")
	}
	if a.IsAdmin(40) {
		t.Fatal("unlisted user must not be admin")
	}
}

func TestAccessListEmpty(t *testing.T) {
	a := NewAccessList(nil, nil)

	if a.IsAuthorized(1) || a.IsAdmin(1) {
		t.Fatal("empty access list must deny everyone")
	}
}
