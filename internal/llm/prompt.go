package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt is the system instruction for entity detection
const SystemPrompt = "You are an entity detection assistant."

// entityDefinitions are the example definitions shown to the model
const entityDefinitions = `   - CREDIT_CARD: 16-digit credit card numbers (e.g., 1234 5678 9012 3456).
   - IN_AADHAR: 12-digit Aadhaar numbers (e.g., 1234 5678 9012).
   - IN_PAN: 10-character PAN numbers (e.g., ABCDE1234F).
   - EMAIL_ADDRESS: Standard email addresses (e.g., user@domain.com). Do NOT classify UPI IDs (e.g., 1234567890@upi) as email addresses.
   - IN_UPI_ID: UPI IDs (e.g., 9731934127@ybl, 9876543210@oksbi).
   - DATE_TIME: Dates and times (e.g., 02/01/2025, 02 Jan'25 17:37Hrs).
   - LOCATION: Addresses or places (e.g., KOTA, RAJASTHAN).
   - PERSON: Names of individuals (e.g., John Doe).
   - PHONE_NUMBER: Phone numbers (e.g., +91 9876543210).
   - IN_PASSPORT: Indian passport numbers (e.g., A1234567).
   - GSTIN: Indian GSTIN numbers (e.g., 36AAACQ5437A1ZS).
   - COMPANY_NAME: Business names (e.g., ABC Corp).
   - URL: Website URLs (e.g., www.tataaig.com).
   - IN_VEHICLE_REGISTRATION: Vehicle registration numbers (e.g., RJ20).
   - IN_BANK_ACCOUNT: Bank account numbers (e.g., 3646101010863).
   - IN_IFSC_CODE: IFSC codes (e.g., SBIN0003646).`

// BuildPrompt constructs the entity detection prompt
func BuildPrompt(text string, entities []string, userPrompt string) string {
	entityList := "none"
	if len(entities) > 0 {
		entityList = strings.Join(entities, ", ")
	}

	instruction := strings.TrimSpace(userPrompt)
	if instruction == "" {
		instruction = "none"
	}

	return fmt.Sprintf(`You are an expert in entity detection for Indian financial and identity documents. Perform the following tasks:

1. Extract the following predefined entities: %s.
   Predefined entity definitions:
%s

2. If a user prompt is provided, extract additional entities based on the prompt: %s.
   - For specific entities mentioned in the prompt (e.g., "engine no", "policy no"), detect and name them as uppercase with underscores (e.g., ENGINE_NO, POLICY_NO).
   - For generic prompts (e.g., "find all vehicle related information", "find all PII", "business information"), infer relevant entities from the text content and assign custom entity names based on the context (e.g., VEHICLE_TYPE, INSURANCE_PROVIDER).
   - Ensure custom entity names are clear, uppercase with underscores, and relevant to the prompt and text content.

Return a JSON object with entity types as keys and lists of detected entities as values. If no entities are found for a type, return an empty list. Do not return "NA" for empty entities.
Text: %s
`, entityList, entityDefinitions, instruction, text)
}
