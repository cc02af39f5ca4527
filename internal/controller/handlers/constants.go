package handlers

import "time"

// Ожидание ввода email после выбора слота
const EmailSessionTTL = 15 * time.Minute

// Максимальная длина email
const EmailMaxLength = 254
