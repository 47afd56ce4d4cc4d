// Package imagemeta determines image pixel dimensions from header bytes.
//
// The central type is Parser, an incremental state machine: callers feed it
// chunks of an image stream and it reports the dimensions as soon as enough
// of the header has arrived. This lets a prober stop reading a response
// after a couple of kilobytes instead of downloading the whole file.
//
// Decoding goes through the standard image registry. PNG, JPEG, and GIF
// come from the standard library; BMP, TIFF, and WebP from golang.org/x/image;
// and ICO from a local config-only decoder, since favicon.ico is the most
// common icon on the web and no registry decoder exists for it.
package imagemeta
