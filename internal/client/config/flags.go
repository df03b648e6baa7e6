package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string   transport, http or grpc
//	-a string   base URL of the HTTP API
//	-g string   address and port of the gRPC endpoint
//	-k string   access token
//	-e string   comma separated administrator emails
//	-i int      request timeout in seconds
//	-d string   duplicate delete policy, wait or reject
//	-l string   log level
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-t", "-a", "-g", "-k", "-e", "-i", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport: http or grpc")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the HTTP API")
	fs.StringVar(&cfg.GRPCEndpointAddr, "g", cfg.GRPCEndpointAddr, "address and port of the gRPC endpoint")
	fs.StringVar(&cfg.AccessToken, "k", cfg.AccessToken, "access token")
	adminEmails := fs.String("e", strings.Join(cfg.AdminEmails, ","), "comma separated administrator emails")
	requestTimeout := fs.Int("i", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DuplicateDeletePolicy, "d", cfg.DuplicateDeletePolicy, "duplicate delete policy: wait or reject")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AdminEmails = flagx.SplitList(*adminEmails)
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
