package integrations_test

import (
	"fmt"

	"github.com/matzehuels/userdir/pkg/integrations"
)

func ExampleJoinURL() {
	// Slashes at the seam are collapsed so configured base URLs may end in "/"
	fmt.Println(integrations.JoinURL("https://reqres.in/api", "users/2"))
	fmt.Println(integrations.JoinURL("https://reqres.in/api/", "/users?page=1"))
	// Output:
	// https://reqres.in/api/users/2
	// https://reqres.in/api/users?page=1
}

func Example_errors() {
	// Transport failures wrap ErrNetwork as their root cause
	fmt.Println("ErrNetwork:", integrations.ErrNetwork)
	fmt.Println("RequestIDHeader:", integrations.RequestIDHeader)
	// Output:
	// ErrNetwork: network error
	// RequestIDHeader: X-Request-Id
}
