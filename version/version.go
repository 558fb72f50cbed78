package version

// Version is the assetgen release, overridden at build time with
// -ldflags "-X github.com/xll-gen/assetgen/version.Version=v1.2.3".
var Version = "dev"
