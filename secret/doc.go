// Package secret resolves configuration values that reference secrets.
//
// Values are processed in two stages. Environment variables are expanded
// first, strictly: an unset ${VAR} is an error (ExpandEnvStrict). Secret
// references are then fetched through a registered Provider, either as the
// whole value or embedded inside one (Resolver).
//
// A reference names its provider and the key to fetch:
//
//	secretref:static:BEARER_SIGNING_KEY
//	Bearer secretref:static:ADMIN_TOKEN
package secret
