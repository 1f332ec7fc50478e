package model

import "encoding/json"

// EmptyData is the aggregate blob before the first GET /data.
var EmptyData = json.RawMessage(`{"whatsappData":[],"contacts":[],"chatsContacts":[],"messages_chats":[]}`)
