// Package textract fetches per-page document analysis from Amazon Textract.
//
// Client wraps the SDK's AnalyzeDocument call with a token bucket and the
// retry policy from package retry. SDK errors are classified by error code:
// throttling, server and transport failures are retried, everything else
// fails at once. FileSource and JSONSource implement invoice.PageSource for
// page images and for saved JSON responses respectively.
package textract
