package prompt

// Few-shot example pairs anchoring output format and category granularity.
// The set is fixed; it is inserted between the system turn and the real
// request when examples are enabled.
type examplePair struct {
	user      string
	assistant string
}

var fewShotExamples = []examplePair{
	{
		user: `Classify this email:

**Subject:** Your Amazon order #123-4567890 has shipped
**From:** Amazon <shipment-tracking@amazon.com>
**Date:** 2025-01-15 09:23:15

**Body:**
Your order has been shipped and will arrive by January 18.

Track your package: [link]

Order: Wireless Mouse ($25.99), USB-C Cable ($12.99)`,
		assistant: `{
    "category": "Shipping & Delivery",
    "priority": 2,
    "labels": ["shopping", "tracking"],
    "reasoning": "Order shipment confirmation with tracking info. Standard shipping notification, no immediate action needed.",
    "confidence": 0.94
}`,
	},
	{
		user: `Classify this email:

**Subject:** Your verification code: 987654
**From:** no-reply@google.com
**Date:** 2025-01-15 14:22:11

**Body:**
Your Google verification code is: 987654
This code expires in 10 minutes.`,
		assistant: `{
    "category": "Security & 2FA",
    "priority": 5,
    "labels": ["security", "time-sensitive"],
    "reasoning": "Time-sensitive security verification code requiring immediate action before expiration.",
    "confidence": 0.99
}`,
	},
	{
		user: `Classify this email:

**Subject:** Weekly Tech Digest - Issue #42
**From:** newsletter@techblog.com
**Date:** 2025-01-15 16:45:00

**Body:**
Here's this week's roundup of technology news and updates for your reading.`,
		assistant: `{
    "category": "Newsletters & Reading",
    "priority": 1,
    "labels": ["read-later"],
    "reasoning": "Regular newsletter subscription with non-urgent informational content for leisure reading.",
    "confidence": 0.97
}`,
	},
}
