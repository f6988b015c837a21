package httputil_test

import (
	"context"
	"fmt"
	"time"

	errs "github.com/matzehuels/userdir/pkg/errors"
	"github.com/matzehuels/userdir/pkg/httputil"
)

func ExamplePolicy_Do() {
	policy := httputil.NewPolicy(3, time.Millisecond)

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrCodeTimeout, "request timed out")
		}
		return nil
	})

	fmt.Println("Error:", err)
	fmt.Println("Calls:", calls)
	// Output:
	// Error: <nil>
	// Calls: 3
}

func ExamplePolicy_Do_permanent() {
	policy := httputil.NewPolicy(3, time.Millisecond)

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errs.New(errs.ErrCodeService, "status 404")
	})

	fmt.Println("Code:", errs.GetCode(err))
	fmt.Println("Calls:", calls)
	// Output:
	// Code: SERVICE_ERROR
	// Calls: 1
}

func ExampleExponentialBackoff() {
	backoff := httputil.ExponentialBackoff(time.Second)
	for attempt := 1; attempt <= 3; attempt++ {
		fmt.Println(backoff(attempt))
	}
	// Output:
	// 2s
	// 4s
	// 8s
}
