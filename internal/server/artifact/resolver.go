// Package artifact stores uploaded application files (profile pictures and
// project archives) in S3-compatible object storage and resolves the stored
// references back to browsable URLs.
package artifact

import "strings"

// Resolver turns a stored artifact reference into a public object URL.
//
// Historically the submission rows accumulated references in several
// disguises: a bare object key, a key prefixed with the bucket, a key
// prefixed with "public/<bucket>", and a full public URL. Normalize strips
// all of them down to the bare key so every variant resolves to the same
// canonical URL. Resolution is pure string work and idempotent: resolving
// an already-resolved URL yields the same URL.
type Resolver struct {
	endpoint string
	bucket   string
}

// NewResolver constructs a Resolver for the storage endpoint and bucket.
// A trailing slash on the endpoint is ignored.
func NewResolver(endpoint, bucket string) *Resolver {
	return &Resolver{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		bucket:   bucket,
	}
}

// Normalize reduces a stored reference to the bare object key. Unknown
// shapes pass through unchanged apart from a single leading slash.
func (r *Resolver) Normalize(ref string) string {
	if rest, ok := strings.CutPrefix(ref, r.endpoint+"/"+r.bucket+"/"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(ref, "public/"+r.bucket+"/"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(ref, r.bucket+"/"); ok {
		return rest
	}
	return strings.TrimPrefix(ref, "/")
}

// Resolve returns the public URL for a stored reference. An empty reference
// resolves to ok == false; callers render "no file attached".
func (r *Resolver) Resolve(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	key := r.Normalize(ref)
	if key == "" {
		return "", false
	}
	return r.PublicURL(key), true
}

// PublicURL builds the public object URL for a bare key.
func (r *Resolver) PublicURL(key string) string {
	return r.endpoint + "/" + r.bucket + "/" + key
}
