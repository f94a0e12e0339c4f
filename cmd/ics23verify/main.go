// ics23verify checks chained ICS-23 commitment proofs, either offline against
// a root given in the request or against the roots trusted by a light client.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"go.dedis.ch/onet/v3/log"
	"gopkg.in/urfave/cli.v1"

	commitment "github.com/icon-project/IBC-Integration-sub002"
	"github.com/icon-project/IBC-Integration-sub002/config"
	"github.com/icon-project/IBC-Integration-sub002/lightclient"
)

var requestFlag = cli.StringFlag{
	Name:  "request, r",
	Usage: "JSON verification request, - for stdin",
}

var configFlag = cli.StringFlag{
	Name:  "config, c",
	Value: "ics23verify.toml",
	Usage: "TOML configuration of the light client",
}

var cmds = cli.Commands{
	{
		Name:    "profiles",
		Usage:   "list the proof spec profiles",
		Aliases: []string{"p"},
		Action:  profiles,
	},
	{
		Name:    "membership",
		Usage:   "verify a membership proof against the root of the request",
		Aliases: []string{"m"},
		Flags:   []cli.Flag{requestFlag},
		Action:  membership,
	},
	{
		Name:    "nonmembership",
		Usage:   "verify a non-membership proof against the root of the request",
		Aliases: []string{"n"},
		Flags:   []cli.Flag{requestFlag},
		Action:  nonMembership,
	},
	{
		Name:  "trust",
		Usage: "trust a consensus root of the configured client",
		Flags: []cli.Flag{
			configFlag,
			cli.Uint64Flag{
				Name:  "height",
				Usage: "height of the root",
			},
			cli.StringFlag{
				Name:  "root",
				Usage: "root hash in hex",
			},
		},
		Action: trust,
	},
	{
		Name:    "verify",
		Usage:   "verify a request against a root trusted by the configured client",
		Aliases: []string{"v"},
		Flags:   []cli.Flag{configFlag, requestFlag},
		Action:  verify,
	},
}

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "ics23verify"
	cliApp.Usage = "Verify chained ICS-23 commitment proofs."
	cliApp.Version = "0.1"
	cliApp.Commands = cmds
	cliApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "debug, d",
			Value: 0,
			Usage: "debug-level: 1 for terse, 5 for maximal",
		},
	}
	cliApp.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		return nil
	}
	log.ErrFatal(cliApp.Run(os.Args))
}

func profiles(c *cli.Context) error {
	return writeProfiles(c.App.Writer)
}

func writeProfiles(w io.Writer) error {
	for _, p := range commitment.Profiles() {
		specs, err := commitment.Specs(p)
		if err != nil {
			return err
		}
		names := make([]string, len(specs))
		for i, s := range specs {
			names[i] = commitment.SpecName(s)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", p, strings.Join(names, " -> ")); err != nil {
			return err
		}
	}
	return nil
}

func membership(c *cli.Context) error {
	req, err := readRequest(c.String("request"))
	if err != nil {
		return err
	}
	if err := verifyOffline(req, true); err != nil {
		return err
	}
	log.Info("membership verified")
	return nil
}

func nonMembership(c *cli.Context) error {
	req, err := readRequest(c.String("request"))
	if err != nil {
		return err
	}
	if err := verifyOffline(req, false); err != nil {
		return err
	}
	log.Info("non-membership verified")
	return nil
}

func trust(c *cli.Context) error {
	if !c.IsSet("height") {
		return errors.New("--height flag is required")
	}
	client, err := openClient(c.String("config"))
	if err != nil {
		return err
	}
	defer client.Close()
	if err := trustRoot(client, c.Uint64("height"), c.String("root")); err != nil {
		return err
	}
	log.Infof("%s: trusted root at height %d", client.ID(), c.Uint64("height"))
	return nil
}

func verify(c *cli.Context) error {
	req, err := readRequest(c.String("request"))
	if err != nil {
		return err
	}
	client, err := openClient(c.String("config"))
	if err != nil {
		return err
	}
	defer client.Close()
	if err := verifyWithClient(client, req); err != nil {
		return err
	}
	log.Infof("%s: verified at height %d", client.ID(), req.height)
	return nil
}

func openClient(path string) (*lightclient.Client, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Debug > log.DebugVisible() {
		log.SetDebugVisible(cfg.Debug)
	}
	return lightclient.NewFromConfig(cfg)
}

func readRequest(name string) (*request, error) {
	var bz []byte
	var err error
	switch name {
	case "":
		return nil, errors.New("--request flag is required")
	case "-":
		bz, err = ioutil.ReadAll(os.Stdin)
	default:
		bz, err = ioutil.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	return parseRequest(bz)
}

// verifyOffline verifies the request against its own root with the specs of
// its profile.
func verifyOffline(req *request, membership bool) error {
	specs, err := commitment.Specs(req.profile)
	if err != nil {
		return err
	}
	proof, err := req.proof()
	if err != nil {
		return err
	}
	log.Lvlf2("verifying %s at %s under %x", proof, req.path, req.root.Hash)
	if membership {
		err = commitment.VerifyMembership(proof, specs, req.root, req.path, req.value)
	} else {
		err = commitment.VerifyNonMembership(proof, specs, req.root, req.path)
	}
	return withKind(err)
}

// verifyWithClient verifies the request against the root the client trusts
// at the request height. A request without value is a non-membership check.
func verifyWithClient(client *lightclient.Client, req *request) error {
	if req.hasValue {
		return withKind(client.VerifyMembership(req.height, req.prefix, req.key, req.value, req.proofBz))
	}
	return withKind(client.VerifyNonMembership(req.height, req.prefix, req.key, req.proofBz))
}

func trustRoot(client *lightclient.Client, height uint64, rootHex string) error {
	root, err := decodeHex(rootHex)
	if err != nil {
		return fmt.Errorf("%w: root: %v", errInvalidHexData, err)
	}
	return client.SetConsensusRoot(height, commitment.NewMerkleRoot(root))
}

// withKind prefixes verification failures with their kind.
func withKind(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s error: %w", commitment.KindOf(err), err)
}
