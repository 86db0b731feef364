package vision

// InvoicePrompt is the fixed instruction sent ahead of the screenshots.
const InvoicePrompt = `
You are extracting invoice-related information from chat screenshots.

Tasks:
1. Read all visible text from the images.
2. Infer missing details if context is obvious.
For "items":
- Always return an ARRAY
- Each item must be an object with:
  - description (string)
  - quantity (number, default 1)
  - rate (number, default 0)

If you see only one item, still return an array with one object.
If price is missing, use 0.
Never return items as a string.
3. Return ONLY valid JSON matching this schema:

{
  "companyName": string | null,
  "address": string | null,
  "GSTIN No.": string | null,
  "date": string | null,
  "items": array | null,
  "totalAmount": string | null,
  "paymentMode": string | null,
  "paymentStatus": string | null,
  "Client Name": string | null,
  "Client Address": string | null
}

Rules:
- Do not add explanations
- Do not add extra fields
- If unsure, return null
`
