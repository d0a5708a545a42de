// Package file persists session records as files on the local disk.
//
// Each key is stored as <dir>/<key>.json. Writes go to a temporary file in the
// same directory which is synced and renamed over the target, so a crash never
// leaves a half-written record behind. Files are created with 0600 permissions
// and the directory with 0700, since records carry bearer tokens.
//
//	store, err := file.New(file.DefaultDir())
//	if err != nil {
//		return err
//	}
//	mgr, err := session.Open(ctx, store)
//
// The directory can also be configured through the environment:
//
//	SESSION_FILE_DIR  (default: <user config dir>/sstu-db)
package file
