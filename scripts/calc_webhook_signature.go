package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// calc_webhook_signature.go - Utility to calculate the HMAC-SHA256 signature
// a webhook consumer should expect in the X-Attendance-Signature header
//
// Usage:
//   go run scripts/calc_webhook_signature.go <secret> <payload>
//
// Example:
//   go run scripts/calc_webhook_signature.go mysecret '{"type":"model.retrain.completed"}'
//
// Output:
//   sha256=4f1c0f3e...

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run calc_webhook_signature.go <secret> <payload>")
		fmt.Println("")
		fmt.Println("Example:")
		fmt.Println("  go run scripts/calc_webhook_signature.go mysecret '{\"type\":\"model.retrain.completed\"}'")
		os.Exit(1)
	}

	secret := os.Args[1]
	payload := os.Args[2]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	signature := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	fmt.Printf("Payload:   %s\n", payload)
	fmt.Printf("Signature: %s\n", signature)
}
