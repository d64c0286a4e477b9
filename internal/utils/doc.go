// Package utils provides small helpers shared by the adapter and signal
// layers: a configured resty client, access token inspection, and nonce
// generation.
package utils
