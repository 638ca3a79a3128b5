package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	blake2b "github.com/Giulio2002/pinned_blake2b"
	"github.com/Giulio2002/pinned_blake2b/securemem"
)

// disableSIMDEnv turns the vectorized engine off process-wide when set to a true value.
const disableSIMDEnv = "B2BSUM_DISABLE_SIMD"

type config struct {
	bits    int
	keyFile string
	salt    string
	engine  string
	tag     bool
	verbose bool
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	var cfg config

	cmd := &cobra.Command{
		Use:          "b2bsum [flags] [FILE...]",
		Short:        "print BLAKE2b digests or Prefix-MACs of files",
		Long:         "With no FILE, or when FILE is -, read standard input.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			if v, ok := os.LookupEnv(disableSIMDEnv); ok {
				disabled, err := strconv.ParseBool(v)
				if err != nil {
					return fmt.Errorf("%s: %w", disableSIMDEnv, err)
				}
				blake2b.SetVectorDisabled(disabled)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, log, &cfg, args)
		},
	}

	bindFlags(cmd.Flags(), &cfg)
	cmd.PersistentFlags().BoolVarP(&cfg.verbose, "verbose", "v", false, "log engine selection and byte counts to stderr")
	return cmd
}

// bindFlags registers the hashing flags on f, writing into cfg.
func bindFlags(f *pflag.FlagSet, cfg *config) {
	f.IntVarP(&cfg.bits, "length", "l", 512, "digest length in bits, a multiple of 8 in [8, 512]")
	f.StringVarP(&cfg.keyFile, "key-file", "k", "", "compute a Prefix-MAC keyed with the contents of `file` (at most 64 bytes)")
	f.StringVar(&cfg.salt, "salt", "", "16-byte salt as 32 hex characters")
	f.StringVar(&cfg.engine, "engine", "auto", "compression engine: auto, scalar or vector")
	f.BoolVar(&cfg.tag, "tag", false, "create a BSD-style checksum")
}

func parseEngine(s string) (blake2b.Engine, error) {
	for _, e := range []blake2b.Engine{blake2b.EngineAuto, blake2b.EngineScalar, blake2b.EngineVector} {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown engine %q", s)
}

// newDigest builds the digest described by cfg. The returned key buffer, if
// any, must be closed by the caller after the digest.
func newDigest(log *logrus.Logger, cfg *config) (*blake2b.Digest, *securemem.Buffer, error) {
	engine, err := parseEngine(cfg.engine)
	if err != nil {
		return nil, nil, err
	}

	var salt []byte
	if cfg.salt != "" {
		if salt, err = hex.DecodeString(cfg.salt); err != nil {
			return nil, nil, fmt.Errorf("salt: %w", err)
		}
	}

	if cfg.keyFile == "" && salt == nil {
		d, err := blake2b.New(cfg.bits, blake2b.WithEngine(engine))
		return d, nil, err
	}

	var key *securemem.Buffer
	if cfg.keyFile != "" {
		raw, err := os.ReadFile(cfg.keyFile)
		if err != nil {
			return nil, nil, err
		}
		key = securemem.FromBytes(raw)
		log.WithFields(logrus.Fields{"bytes": key.Len(), "locked": key.Locked()}).Debug("key loaded")
	}

	if cfg.bits%8 != 0 {
		if key != nil {
			key.Close()
		}
		return nil, nil, fmt.Errorf("%w: digest length %d bits is not a multiple of 8", blake2b.ErrInvalidParameter, cfg.bits)
	}
	d, err := blake2b.NewMAC(key, salt, cfg.bits/8, blake2b.WithEngine(engine))
	if err != nil {
		if key != nil {
			key.Close()
		}
		return nil, nil, err
	}
	return d, key, nil
}

func run(cmd *cobra.Command, log *logrus.Logger, cfg *config, args []string) error {
	if cfg.bits == 0 {
		return fmt.Errorf("%w: digest length 0 bits", blake2b.ErrInvalidParameter)
	}
	d, key, err := newDigest(log, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.WithError(err).Warn("releasing digest memory")
		}
		if key != nil {
			key.Close()
		}
	}()

	log.WithFields(logrus.Fields{
		"engine": d.Engine(),
		"vector": blake2b.VectorPathEnabled(),
		"bits":   d.Size() * 8,
		"keyed":  key != nil,
	}).Debug("digest ready")

	if len(args) == 0 {
		args = []string{"-"}
	}

	out := cmd.OutOrStdout()
	sum := make([]byte, d.Size())
	buf := make([]byte, 32*1024)
	var failed int
	for _, name := range args {
		n, err := hashInput(cmd, d, name, buf)
		if err != nil {
			log.WithError(err).WithField("file", name).Error("hashing failed")
			d.Reset()
			failed++
			continue
		}
		d.DoFinal(sum, 0)
		log.WithFields(logrus.Fields{"file": name, "bytes": n}).Debug("hashed")

		if cfg.tag {
			fmt.Fprintf(out, "BLAKE2b-%d (%s) = %x\n", d.Size()*8, name, sum)
		} else {
			fmt.Fprintf(out, "%x  %s\n", sum, name)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs could not be read", failed, len(args))
	}
	return nil
}

func hashInput(cmd *cobra.Command, d *blake2b.Digest, name string, buf []byte) (int64, error) {
	if name == "-" {
		return io.CopyBuffer(d, cmd.InOrStdin(), buf)
	}
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.CopyBuffer(d, f, buf)
}
