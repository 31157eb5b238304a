package ensureline_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/ensureline"
	"github.com/aretw0/ensureline/pkg/adapters/memory"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/params"
)

// ExampleNew_library edits an in-memory buffer instead of a file.
func ExampleNew_library() {
	store := memory.NewStore(map[string][]string{
		"/etc/ssh/sshd_config": {"Port 22", "PermitRootLogin yes", "UsePAM yes"},
	})
	ed := ensureline.New(ensureline.WithResolver(store))
	ctx := context.Background()

	edit := params.Params{
		Destination: "/etc/ssh/sshd_config",
		Regexp:      domain.String(`^PermitRootLogin`),
		Line:        domain.String("PermitRootLogin no"),
	}
	for i := 0; i < 2; i++ {
		res, err := ed.Apply(ctx, edit)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("changed:", res.Changed, "action:", res.Action)
	}

	lines, _ := store.Get("/etc/ssh/sshd_config")
	fmt.Println(lines)
	// Output:
	// changed: true action: replaced
	// changed: false action: none
	// [Port 22 PermitRootLogin no UsePAM yes]
}
