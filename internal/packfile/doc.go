// Package packfile reads packaged files without extracting them: the leading
// image header, the archive entries behind it, and their checksums.
package packfile
