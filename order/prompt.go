package order

import "fmt"

// SystemPrompt frames the model as a cha chaan teng order taker.
const SystemPrompt = "你是一個專門處理香港茶餐廳訂單的AI助手。請以JSON格式返回結構化的訂單信息。"

const promptTemplate = `請解析以下香港茶餐廳點餐的語音轉錄內容，並返回結構化訂單。

語音轉錄內容："%s"

注意事項：
- 轉錄可能有同音字錯誤，請按粵語發音推斷原意。
- 支援中英夾雜，例如「一杯coffee」、「兩個sandwich」。
- 數量可以是中文數字或阿拉伯數字，量詞包括杯、份、個、碗、碟、客。無法確定時數量為 1。
- 定制選項只在明確提及時填寫：
  甜度：少甜/正常/甜/無糖/半糖
  冰塊：走冰/少冰/正常冰/多冰
  溫度：凍/熱/室溫
  加料：檸檬/蜂蜜/薄荷/奶
  份量：大杯/中杯/小杯
- 無法識別的項目請設定 "clarification_needed": true 並列在 "unclear_items"。

價格參考（港幣）：檸檬茶 18，奶茶 22-25，咖啡 22-28，果汁 18-25，汽水 15，
炒河/炒麵 32-38，炒飯 32-40，多士 15-32，三明治 25-38，湯 12-18。

只返回一個 JSON 物件，格式如下：
{
  "items": [
    {
      "name": "凍檸茶",
      "quantity": 1,
      "unit_price": 18.0,
      "customizations": {"甜度": "少甜", "冰塊": "走冰"}
    }
  ],
  "special_requests": ["少甜", "走冰"],
  "total": 18.0,
  "confidence": 0.95,
  "clarification_needed": false,
  "unclear_items": []
}`

// BuildPrompt embeds the transcript in the order-parsing prompt.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
