package loader

// channel configuration file schema; the payload stays opaque to the
// resolver beyond the rules entry count and the optional remote repository
const configurationSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "remote_repository": {
      "type": "string",
      "format": "uri"
    },
    "rules": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "contains": {"type": "string", "minLength": 1},
          "emoji": {"type": "string"},
          "text": {"type": "string"}
        },
        "required": ["contains"],
        "additionalProperties": false
      }
    }
  },
  "required": ["rules"],
  "additionalProperties": false
}`
