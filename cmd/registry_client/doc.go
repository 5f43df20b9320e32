// Command registry_client manages authenticity certificates on a registry
// server from the command line.
//
// Signed operations (init, issue, transfer, revoke) need a secp256k1 key,
// given with --key or REGISTRY_KEY as 64 hex characters or as a path to a
// file holding hex or an encrypted keystore (password in --key-password or
// REGISTRY_KEY_PASSWORD). A key is created with generate-key.
//
// Typical flow:
//
//	registry_client generate-key --out brand.json --password secret
//	registry_client --key brand.json --key-password secret init
//	registry_client metadata put --file watch-a001.json
//	registry_client --key brand.json --key-password secret issue \
//	    --cert-id A-001 --metadata-file watch-a001.json --owner 0x...
//	registry_client verify --cert-id A-001 --metadata-file watch-a001.json
//	registry_client --key owner.hex transfer --cert-id A-001 --new-owner 0x...
//
// verify exits with status 1 when the certificate does not verify.
package main
