package rpmbuilder

// BuildRevision is the git revision of the build, set at link time:
//
//	go build -ldflags "-X github.com/mongodb/rpmbuilder.BuildRevision=$(git rev-parse HEAD)" ./cmd/rpm-builder
var BuildRevision = ""
