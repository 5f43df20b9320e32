package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/urfave/cli/v2"
	"github.com/veriluxe/certificate-registry/api"
	"github.com/veriluxe/certificate-registry/api/certhandler"
	"github.com/veriluxe/certificate-registry/api/metadatahandler"
	"github.com/veriluxe/certificate-registry/auth"
	"github.com/veriluxe/certificate-registry/cmd/flags"
	"github.com/veriluxe/certificate-registry/common"
	"github.com/veriluxe/certificate-registry/interfaces"
	"github.com/veriluxe/certificate-registry/keys"
)

var flagKey = &cli.StringFlag{
	Name:    "key",
	Usage:   "signing key: 64 hex characters, or a file holding hex or keystore JSON",
	EnvVars: []string{"REGISTRY_KEY"},
}
var flagKeyPassword = &cli.StringFlag{
	Name:    "key-password",
	Usage:   "password of a keystore JSON key file",
	EnvVars: []string{"REGISTRY_KEY_PASSWORD"},
}
var flagCertID = &cli.StringFlag{
	Name:     "cert-id",
	Required: true,
	Usage:    "certificate id",
}
var flagMetadataHash = &cli.StringFlag{
	Name:  "metadata-hash",
	Usage: "metadata hash recorded in the certificate",
}
var flagMetadataFile = &cli.StringFlag{
	Name:  "metadata-file",
	Usage: "metadata document; its SHA-256 is used as the metadata hash",
}
var flagContentType = &cli.StringFlag{
	Name:  "type",
	Value: interfaces.MetadataType.String(),
	Usage: "document namespace: metadata or media",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "registry_client",
		Usage:   "Manage authenticity certificates on a registry server",
		Version: common.Version,
		Flags: []cli.Flag{
			flags.RegistryURLFlag,
			flagKey,
			flagKeyPassword,
		},
		Commands: []*cli.Command{
			{
				Name:  "generate-key",
				Usage: "generate a new signing key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "write an encrypted keystore JSON file instead of printing the key"},
					&cli.StringFlag{Name: "password", Usage: "password for --out", EnvVars: []string{"REGISTRY_KEY_PASSWORD"}},
				},
				Action: generateKey,
			},
			{
				Name:  "init",
				Usage: "install the registry admin, signed by that admin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "admin", Usage: "admin address, defaults to the address of --key"},
				},
				Action: func(cCtx *cli.Context) error {
					client, signer, err := signingClient(cCtx)
					if err != nil {
						return err
					}
					admin := signer.Identity()
					if raw := cCtx.String("admin"); raw != "" {
						if admin, err = interfaces.NewIdentityFromHex(raw); err != nil {
							return err
						}
					}
					if err := client.Initialize(cCtx.Context, nil, admin); err != nil {
						return err
					}
					return printJSON(api.AdminResponse{AdminAddress: admin})
				},
			},
			{
				Name:  "issue",
				Usage: "issue a certificate (admin)",
				Flags: []cli.Flag{
					flagCertID,
					flagMetadataHash,
					flagMetadataFile,
					&cli.StringFlag{Name: "owner", Required: true, Usage: "owner address"},
				},
				Action: func(cCtx *cli.Context) error {
					client, _, err := signingClient(cCtx)
					if err != nil {
						return err
					}
					metadataHash, err := metadataHashFrom(cCtx)
					if err != nil {
						return err
					}
					owner, err := interfaces.NewIdentityFromHex(cCtx.String("owner"))
					if err != nil {
						return err
					}
					id := interfaces.CertificateID(cCtx.String(flagCertID.Name))
					if err := client.IssueCertificate(cCtx.Context, nil, id, metadataHash, owner); err != nil {
						return err
					}
					return printCertificate(cCtx, client, id)
				},
			},
			{
				Name:  "verify",
				Usage: "verify a certificate against a metadata hash or document",
				Flags: []cli.Flag{flagCertID, flagMetadataHash, flagMetadataFile},
				Action: func(cCtx *cli.Context) error {
					client := certhandler.NewClient(cCtx.String(flags.RegistryURLFlag.Name), nil)
					id := interfaces.CertificateID(cCtx.String(flagCertID.Name))

					var valid bool
					var err error
					if path := cCtx.String(flagMetadataFile.Name); path != "" {
						document, readErr := os.ReadFile(path)
						if readErr != nil {
							return readErr
						}
						valid, err = client.VerifyDocument(cCtx.Context, id, document)
					} else {
						metadataHash, hashErr := metadataHashFrom(cCtx)
						if hashErr != nil {
							return hashErr
						}
						valid, err = client.Verify(cCtx.Context, id, metadataHash)
					}
					if err != nil {
						return err
					}
					if err := printJSON(map[string]any{"cert_id": id, "valid": valid}); err != nil {
						return err
					}
					if !valid {
						return cli.Exit("", 1)
					}
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "show certificate details",
				Flags: []cli.Flag{flagCertID},
				Action: func(cCtx *cli.Context) error {
					client := certhandler.NewClient(cCtx.String(flags.RegistryURLFlag.Name), nil)
					return printCertificate(cCtx, client, interfaces.CertificateID(cCtx.String(flagCertID.Name)))
				},
			},
			{
				Name:  "transfer",
				Usage: "transfer a certificate (current owner)",
				Flags: []cli.Flag{
					flagCertID,
					&cli.StringFlag{Name: "new-owner", Required: true, Usage: "new owner address"},
				},
				Action: func(cCtx *cli.Context) error {
					client, _, err := signingClient(cCtx)
					if err != nil {
						return err
					}
					newOwner, err := interfaces.NewIdentityFromHex(cCtx.String("new-owner"))
					if err != nil {
						return err
					}
					id := interfaces.CertificateID(cCtx.String(flagCertID.Name))
					if err := client.Transfer(cCtx.Context, nil, id, newOwner); err != nil {
						return err
					}
					return printCertificate(cCtx, client, id)
				},
			},
			{
				Name:  "revoke",
				Usage: "revoke a certificate (admin)",
				Flags: []cli.Flag{flagCertID},
				Action: func(cCtx *cli.Context) error {
					client, _, err := signingClient(cCtx)
					if err != nil {
						return err
					}
					id := interfaces.CertificateID(cCtx.String(flagCertID.Name))
					if err := client.Revoke(cCtx.Context, nil, id); err != nil {
						return err
					}
					return printCertificate(cCtx, client, id)
				},
			},
			{
				Name:  "exists",
				Usage: "check whether a certificate id was ever issued",
				Flags: []cli.Flag{flagCertID},
				Action: func(cCtx *cli.Context) error {
					client := certhandler.NewClient(cCtx.String(flags.RegistryURLFlag.Name), nil)
					id := interfaces.CertificateID(cCtx.String(flagCertID.Name))
					exists, err := client.CertificateExists(cCtx.Context, id)
					if err != nil {
						return err
					}
					return printJSON(api.ExistsResponse{CertID: id.String(), Exists: exists})
				},
			},
			{
				Name:  "admin",
				Usage: "show the registry admin",
				Action: func(cCtx *cli.Context) error {
					client := certhandler.NewClient(cCtx.String(flags.RegistryURLFlag.Name), nil)
					admin, err := client.GetAdmin(cCtx.Context)
					if err != nil {
						return err
					}
					return printJSON(api.AdminResponse{AdminAddress: admin})
				},
			},
			{
				Name:  "metadata",
				Usage: "store and fetch metadata documents",
				Subcommands: []*cli.Command{
					{
						Name:  "put",
						Usage: "upload a document and print its content id",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "file", Required: true, Usage: "document to upload"},
							flagContentType,
						},
						Action: func(cCtx *cli.Context) error {
							contentType, err := interfaces.ParseContentType(cCtx.String(flagContentType.Name))
							if err != nil {
								return err
							}
							data, err := os.ReadFile(cCtx.String("file"))
							if err != nil {
								return err
							}
							client := metadatahandler.NewClient(cCtx.String(flags.RegistryURLFlag.Name))
							id, err := client.Store(cCtx.Context, data, contentType)
							if err != nil {
								return err
							}
							return printJSON(api.MetadataResponse{
								ContentID:   id.String(),
								ContentType: contentType.String(),
								Size:        len(data),
							})
						},
					},
					{
						Name:  "get",
						Usage: "download a document by content id",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "content-id", Required: true, Usage: "hex SHA-256 of the document"},
							&cli.StringFlag{Name: "out", Usage: "write to this file instead of stdout"},
							flagContentType,
						},
						Action: func(cCtx *cli.Context) error {
							contentType, err := interfaces.ParseContentType(cCtx.String(flagContentType.Name))
							if err != nil {
								return err
							}
							id, err := interfaces.NewContentIDFromHex(cCtx.String("content-id"))
							if err != nil {
								return err
							}
							client := metadatahandler.NewClient(cCtx.String(flags.RegistryURLFlag.Name))
							data, err := client.Fetch(cCtx.Context, id, contentType)
							if err != nil {
								return err
							}
							if out := cCtx.String("out"); out != "" {
								return os.WriteFile(out, data, 0o644)
							}
							_, err = os.Stdout.Write(data)
							return err
						},
					},
				},
			},
		},
	}
}

func generateKey(cCtx *cli.Context) error {
	key, err := keys.GenerateKey()
	if err != nil {
		return fmt.Errorf("could not generate key: %w", err)
	}
	identity := keys.Identity(key)

	out := cCtx.String("out")
	if out == "" {
		return printJSON(map[string]string{
			"address":     identity.String(),
			"private_key": keys.HexKey(key),
		})
	}

	password := cCtx.String("password")
	if password == "" {
		return errors.New("--password is required with --out")
	}
	encrypted, err := keys.EncryptKey(key, password, keystore.StandardScryptN, keystore.StandardScryptP)
	if err != nil {
		return fmt.Errorf("could not encrypt key: %w", err)
	}
	if err := os.WriteFile(out, encrypted, 0o600); err != nil {
		return err
	}
	return printJSON(map[string]string{
		"address":  identity.String(),
		"keystore": out,
	})
}

func signingClient(cCtx *cli.Context) (*certhandler.Client, *auth.RequestSigner, error) {
	source := cCtx.String(flagKey.Name)
	if source == "" {
		return nil, nil, errors.New("--key (or REGISTRY_KEY) is required for signed operations")
	}

	key, err := keys.LoadPrivateKey(source, cCtx.String(flagKeyPassword.Name))
	if err != nil {
		return nil, nil, err
	}
	signer, err := auth.NewRequestSigner(key)
	if err != nil {
		return nil, nil, err
	}
	return certhandler.NewClient(cCtx.String(flags.RegistryURLFlag.Name), signer), signer, nil
}

func metadataHashFrom(cCtx *cli.Context) (string, error) {
	hash := cCtx.String(flagMetadataHash.Name)
	path := cCtx.String(flagMetadataFile.Name)

	switch {
	case hash != "" && path != "":
		return "", errors.New("use either --metadata-hash or --metadata-file")
	case hash != "":
		return hash, nil
	case path != "":
		document, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return interfaces.ComputeID(document).String(), nil
	default:
		return "", errors.New("--metadata-hash or --metadata-file is required")
	}
}

func printCertificate(cCtx *cli.Context, client *certhandler.Client, id interfaces.CertificateID) error {
	cert, err := client.GetCertificateDetails(cCtx.Context, id)
	if err != nil {
		return err
	}
	return printJSON(api.NewCertificateResponse(id, cert))
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
