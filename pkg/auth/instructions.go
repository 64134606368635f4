package auth

import (
	"fmt"
	"strings"
)

// ShowCredentialGuide explains how to create an access key that can call
// the document analysis API
func ShowCredentialGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("🔑 AWS CREDENTIALS FOR INVOICE ANALYSIS")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("Invoice parsing calls Amazon Textract (AnalyzeDocument).")
	fmt.Println("You need an access key for an IAM user allowed to call it.")
	fmt.Println()

	fmt.Println("👤 STEP 1: Create or pick an IAM user")
	fmt.Println("   - Open the IAM console → Users")
	fmt.Println("   - Prefer a dedicated user for this tool")
	fmt.Println()

	fmt.Println("📜 STEP 2: Grant access")
	fmt.Println("   - Attach a policy allowing textract:AnalyzeDocument")
	fmt.Println("   - The managed policy AmazonTextractFullAccess also works")
	fmt.Println()

	fmt.Println("🗝  STEP 3: Create an access key")
	fmt.Println("   - Security credentials → Create access key")
	fmt.Println("   - Copy the Access key ID (starts with AKIA) and the Secret access key")
	fmt.Println("   - The secret is shown only once")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • Textract is regional; pick a region where it is available (e.g. us-east-1)")
	fmt.Println("   • AWS_KEY_ID and AWS_SECRET_KEY in the environment are used when no account is stored")
	fmt.Println("   • Stored secrets are kept in the system keyring or an encrypted file")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}
