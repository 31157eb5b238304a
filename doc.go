/*
Package ensureline keeps a single line of a text resource in a desired state.

Given a destination (an absolute file path or a dataset name such as
SYS1.PARMLIB(IEASYS00)) it either makes sure a line is present, replacing the last
line matched by a regular expression or inserting it at a chosen place, or makes sure
no line matches, removing every match. Running the same edit twice changes nothing
the second time.

# Concept

The Editor is a thin orchestrator around a pure reconciler. It validates parameters,
resolves the destination to a resource adapter, takes the per-resource lock, reads
the lines, optionally backs the resource up, reconciles, and writes back only when
something changed. Writes are atomic: a failed edit leaves the resource untouched.

Byte-stream files are split on newlines. Datasets are record oriented (fixed or
variable length records in a local catalog directory). Both are converted between
code pages on the way in and out, IBM-1047 to ISO8859-1 by default.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/ensureline"
		"github.com/aretw0/ensureline/pkg/domain"
		"github.com/aretw0/ensureline/pkg/params"
	)

	func main() {
		ed := ensureline.New()

		res, err := ed.Apply(context.Background(), params.Params{
			Destination: "/etc/profile",
			Regexp:      domain.String(`^umask `),
			Line:        domain.String("umask 022"),
			Encoding:    &domain.Encoding{From: "UTF-8", To: "UTF-8"},
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("changed:", res.Changed)
	}
*/
package ensureline
