package ensureline

// Version is overridden at build time with -ldflags "-X github.com/aretw0/ensureline.Version=...".
var Version = "dev"
