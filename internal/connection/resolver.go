package connection

import (
	"os"

	common "ucs/pkg"
)

// AuthConfig carries the resolved credential material for a backend.
// For Azure Blob, AccessKey holds the account name and SecretKey the
// account key; AccountID is only used by R2.
type AuthConfig struct {
	AccessKey string
	SecretKey string
	AccountID string
}

// LookupFunc reads a single key from an environment-like store. A nil
// LookupFunc means os.Getenv.
type LookupFunc func(key string) string

// Field pairs an explicit credential value with the environment key
// consulted when the explicit value is absent.
type Field struct {
	Name     string
	EnvKey   string
	Explicit string
}

// Resolve fills each field from its explicit value first, then from the
// environment fallback. It either returns a value for every field or a
// single *common.ConfigError naming all missing fields at once.
func Resolve(backend string, lookup LookupFunc, fields ...Field) (map[string]string, error) {
	if lookup == nil {
		lookup = os.Getenv
	}

	values := make(map[string]string, len(fields))
	var missing []string
	var envKeys []string
	for _, f := range fields {
		value := f.Explicit
		if value == "" {
			value = lookup(f.EnvKey)
		}
		if value == "" {
			missing = append(missing, f.Name)
			envKeys = append(envKeys, f.EnvKey)
			continue
		}
		values[f.Name] = value
	}

	if len(missing) > 0 {
		return nil, &common.ConfigError{Backend: backend, Missing: missing, EnvKeys: envKeys}
	}

	return values, nil
}

// ResolveS3 resolves AWS S3 credentials from explicit values with
// S3_ACCESS_KEY_ID/S3_SECRET_ACCESS_KEY as fallbacks.
func ResolveS3(explicit AuthConfig, lookup LookupFunc) (AuthConfig, error) {
	values, err := Resolve(common.BackendS3, lookup,
		Field{Name: "access_key", EnvKey: "S3_ACCESS_KEY_ID", Explicit: explicit.AccessKey},
		Field{Name: "secret_access_key", EnvKey: "S3_SECRET_ACCESS_KEY", Explicit: explicit.SecretKey},
	)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		AccessKey: values["access_key"],
		SecretKey: values["secret_access_key"],
	}, nil
}

// ResolveR2 resolves Cloudflare R2 credentials from explicit values with
// R2_ACCESS_KEY_ID/R2_SECRET_ACCESS_KEY/R2_ACCOUNT_ID as fallbacks. The
// account ID is required because the R2 endpoint is derived from it.
func ResolveR2(explicit AuthConfig, lookup LookupFunc) (AuthConfig, error) {
	values, err := Resolve(common.BackendR2, lookup,
		Field{Name: "access_key", EnvKey: "R2_ACCESS_KEY_ID", Explicit: explicit.AccessKey},
		Field{Name: "secret_access_key", EnvKey: "R2_SECRET_ACCESS_KEY", Explicit: explicit.SecretKey},
		Field{Name: "account_id", EnvKey: "R2_ACCOUNT_ID", Explicit: explicit.AccountID},
	)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		AccessKey: values["access_key"],
		SecretKey: values["secret_access_key"],
		AccountID: values["account_id"],
	}, nil
}

// ResolveMinIO resolves MinIO credentials from explicit values with
// MINIO_ACCESS_KEY/MINIO_SECRET_KEY as fallbacks.
func ResolveMinIO(explicit AuthConfig, lookup LookupFunc) (AuthConfig, error) {
	values, err := Resolve(common.BackendMinIO, lookup,
		Field{Name: "access_key", EnvKey: "MINIO_ACCESS_KEY", Explicit: explicit.AccessKey},
		Field{Name: "secret_key", EnvKey: "MINIO_SECRET_KEY", Explicit: explicit.SecretKey},
	)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		AccessKey: values["access_key"],
		SecretKey: values["secret_key"],
	}, nil
}

// ResolveAzBlob resolves Azure Blob Storage credentials from explicit
// values with AZURE_STORAGE_ACCOUNT_NAME/AZURE_STORAGE_ACCOUNT_KEY as
// fallbacks.
func ResolveAzBlob(explicit AuthConfig, lookup LookupFunc) (AuthConfig, error) {
	values, err := Resolve(common.BackendAzBlob, lookup,
		Field{Name: "account_name", EnvKey: "AZURE_STORAGE_ACCOUNT_NAME", Explicit: explicit.AccessKey},
		Field{Name: "account_key", EnvKey: "AZURE_STORAGE_ACCOUNT_KEY", Explicit: explicit.SecretKey},
	)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		AccessKey: values["account_name"],
		SecretKey: values["account_key"],
	}, nil
}
