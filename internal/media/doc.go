// Package media describes the assets the viewer displays and loads still
// images for the compare compositor.
//
// Asset descriptors come from the asset layer with best-effort metadata;
// ResolveFPS and ResolveFrameCount apply the fallbacks the transport needs.
// ParseFrameRate understands the fraction and decimal forms found in
// container metadata.
//
// LoadBitmap reads the header, then decodes with the Go decoders (JPEG, PNG,
// GIF, BMP, TIFF, WebP). Other formats go to the decoder registered with
// SetFallbackDecoder; package vipsload provides one.
package media
