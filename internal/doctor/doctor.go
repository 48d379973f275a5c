package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/local/scanbind/internal/compiler"
	"github.com/local/scanbind/internal/config"
	"github.com/local/scanbind/internal/rescale"
)

// Status is the readiness of one external dependency.
type Status struct {
	Name     string
	OK       bool
	Message  string
	Required bool
}

// Run probes every dependency and prints one line per result. It returns an
// error when a required dependency is missing, so the process exits non-zero.
func Run(ctx context.Context, cfg config.Config) error {
	failed := 0
	for _, st := range Check(ctx, cfg) {
		mark := "ok"
		if !st.OK {
			mark = "FAIL"
			if st.Required {
				failed++
			}
		}
		fmt.Printf("%-10s %-5s %s\n", st.Name, mark, st.Message)
	}
	if failed > 0 {
		return fmt.Errorf("%d required dependency check(s) failed", failed)
	}
	return nil
}

// Check probes the rescaler, the compiler and the optional archive bucket.
func Check(ctx context.Context, cfg config.Config) []Status {
	return []Status{
		checkRescaler(cfg),
		checkCompiler(cfg),
		checkArchive(ctx, cfg),
	}
}

func checkRescaler(cfg config.Config) Status {
	v, err := rescale.New(cfg.Tools.RescalerBin, cfg.Rescale).Version()
	if err != nil {
		return Status{Name: "rescaler", OK: false, Message: trimError(err), Required: true}
	}
	return Status{Name: "rescaler", OK: true, Message: v, Required: true}
}

func checkCompiler(cfg config.Config) Status {
	v, err := compiler.New(cfg.Tools.CompilerBin).Version()
	if err != nil {
		return Status{Name: "compiler", OK: false, Message: trimError(err), Required: true}
	}
	return Status{Name: "compiler", OK: true, Message: v, Required: true}
}

func checkArchive(ctx context.Context, cfg config.Config) Status {
	if cfg.Archive.Bucket == "" {
		return Status{Name: "archive", OK: true, Message: "not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	awsCfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return Status{Name: "archive", OK: false, Message: trimError(err), Required: true}
	}
	client := s3.NewFromConfig(awsCfg)
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Archive.Bucket)}); err != nil {
		return Status{Name: "archive", OK: false, Message: trimError(err), Required: true}
	}
	return Status{Name: "archive", OK: true, Message: "bucket reachable", Required: true}
}

// trimError keeps check output on one line.
func trimError(err error) string {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	msg := err.Error()
	if len(msg) > 120 {
		return msg[:120]
	}
	return msg
}
