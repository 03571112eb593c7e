package catalog

// Safety categories used as answers in the objects game
const (
	Harmful    = "harmful"
	NonHarmful = "non-harmful"
)

var shapes = []Prompt{
	{ID: "shape-circle", Name: "Circle", Glyph: "⭕", Answer: "Circle",
		Description: "A round shape with no corners",
		Examples:    []string{"clock", "wheel", "plate", "ball"}},
	{ID: "shape-square", Name: "Square", Glyph: "⬛", Answer: "Square",
		Description: "A shape with four equal sides and four corners",
		Examples:    []string{"TV screen", "window", "block", "toast"}},
	{ID: "shape-triangle", Name: "Triangle", Glyph: "🔺", Answer: "Triangle",
		Description: "A shape with three sides and three corners",
		Examples:    []string{"pizza slice", "roof", "pyramid", "yield sign"}},
	{ID: "shape-star", Name: "Star", Glyph: "⭐", Answer: "Star",
		Description: "A shape with five points",
		Examples:    []string{"star in the sky", "sticker", "decoration", "badge"}},
	{ID: "shape-heart", Name: "Heart", Glyph: "❤️", Answer: "Heart",
		Description: "A shape that represents love",
		Examples:    []string{"Valentine's card", "cookie shape", "symbol on clothes", "emoji"}},
	{ID: "shape-rectangle", Name: "Rectangle", Glyph: "▬", Answer: "Rectangle",
		Description: "A shape with opposite sides equal and four corners",
		Examples:    []string{"door", "book", "phone", "TV"}},
	{ID: "shape-oval", Name: "Oval", Glyph: "🥚", Answer: "Oval",
		Description: "A stretched circle shape",
		Examples:    []string{"egg", "face", "mirror", "race track"}},
	{ID: "shape-diamond", Name: "Diamond", Glyph: "🔷", Answer: "Diamond",
		Description: "A four-sided shape with equal sides and different angles",
		Examples:    []string{"kite", "playing card", "jewel", "baseball field"}},
}

var objects = []Prompt{
	{ID: "object-knife", Name: "Knife", Glyph: "🔪", Category: Harmful, Answer: Harmful,
		Description: "A sharp tool used for cutting",
		Examples:    []string{"Never run with knives", "Keep away from small children", "Always cut away from your body"}},
	{ID: "object-ball", Name: "Ball", Glyph: "⚽", Category: NonHarmful, Answer: NonHarmful,
		Description: "A round object used for playing games",
		Examples:    []string{"Safe to play with", "Can be shared with friends", "Good for exercise"}},
	{ID: "object-fire", Name: "Fire", Glyph: "🔥", Category: Harmful, Answer: Harmful,
		Description: "Heat and flames that can burn",
		Examples:    []string{"Never play with matches", "Stay away from open flames", "Tell an adult if you see fire"}},
	{ID: "object-book", Name: "Book", Glyph: "📚", Category: NonHarmful, Answer: NonHarmful,
		Description: "Pages with words and stories",
		Examples:    []string{"Safe to read", "Good for learning", "Can be shared with others"}},
	{ID: "object-scissors", Name: "Scissors", Glyph: "✂️", Category: Harmful, Answer: Harmful,
		Description: "Tool with sharp blades for cutting",
		Examples:    []string{"Use with adult supervision", "Always cut away from yourself", "Walk carefully when holding scissors"}},
	{ID: "object-teddy-bear", Name: "Teddy Bear", Glyph: "🧸", Category: NonHarmful, Answer: NonHarmful,
		Description: "A soft toy for hugging and playing",
		Examples:    []string{"Safe to play with", "Good for comfort", "Can be kept in your room"}},
	{ID: "object-gun", Name: "Gun", Glyph: "🔫", Category: Harmful, Answer: Harmful,
		Description: "A dangerous weapon",
		Examples:    []string{"Never touch real guns", "Tell an adult if you see one", "Stay away from any weapon"}},
	{ID: "object-pencil", Name: "Pencil", Glyph: "✏️", Category: NonHarmful, Answer: NonHarmful,
		Description: "A tool for writing and drawing",
		Examples:    []string{"Safe to use for writing", "Don't poke others", "Be careful with sharp points"}},
	{ID: "object-broken-glass", Name: "Broken Glass", Glyph: "🩹", Category: Harmful, Answer: Harmful,
		Description: "Sharp pieces that can cut you",
		Examples:    []string{"Never touch broken glass", "Tell an adult if you see some", "Stay away from it"}},
	{ID: "object-apple", Name: "Apple", Glyph: "🍏", Category: NonHarmful, Answer: NonHarmful,
		Description: "A healthy fruit for eating",
		Examples:    []string{"Good for your health", "Wash before eating", "Safe to share with others"}},
	{ID: "object-needle", Name: "Needle", Glyph: "🪡", Category: Harmful, Answer: Harmful,
		Description: "A sharp tool for sewing",
		Examples:    []string{"Only use with adult supervision", "Keep in a safe container", "Be very careful with the sharp point"}},
	{ID: "object-balloon", Name: "Balloon", Glyph: "🎈", Category: NonHarmful, Answer: NonHarmful,
		Description: "A colorful inflatable toy",
		Examples:    []string{"Fun to play with", "Don't put in your mouth", "Keep away from very small children"}},
}

// Gesture examples are the steps to perform the gesture.
var gestures = []Prompt{
	{ID: "gesture-wave-hello", Name: "Wave Hello", Glyph: "👋", Answer: "Wave Hello",
		Description: "Use this to greet someone.",
		Examples:    []string{"Raise your hand", "Move side to side"}},
	{ID: "gesture-thumbs-up", Name: "Thumbs Up", Glyph: "👍", Answer: "Thumbs Up",
		Description: "Use this to show approval.",
		Examples:    []string{"Make a fist", "Lift your thumb"}},
	{ID: "gesture-i-love-you", Name: "I Love You", Glyph: "❤️", Answer: "I Love You",
		Description: "Use this to express love.",
		Examples:    []string{"Touch your chest", "Make a heart shape"}},
	{ID: "gesture-fingers-crossed", Name: "Fingers Crossed", Glyph: "🤞", Answer: "Fingers Crossed",
		Description: "Use this to wish for good luck.",
		Examples:    []string{"Raise your hand", "Cross your fingers"}},
	{ID: "gesture-peace-sign", Name: "Peace Sign", Glyph: "✌️", Answer: "Peace Sign",
		Description: "Use this to show peace or victory.",
		Examples:    []string{"Raise your hand", "Extend two fingers"}},
	{ID: "gesture-call-me", Name: "Call Me", Glyph: "🤙", Answer: "Call Me",
		Description: "Use this to ask someone to call you.",
		Examples:    []string{"Raise your hand", "Make a phone shape"}},
	{ID: "gesture-ok", Name: "OK", Glyph: "👌", Answer: "OK",
		Description: "Use this to show approval or agreement.",
		Examples:    []string{"Make a circle with your thumb and index finger"}},
	{ID: "gesture-clap", Name: "Clap", Glyph: "👏", Answer: "Clap",
		Description: "Use this to show appreciation.",
		Examples:    []string{"Bring your palms together", "Clap your hands"}},
	{ID: "gesture-handshake", Name: "Handshake", Glyph: "🤝", Answer: "Handshake",
		Description: "Use this to greet or seal a deal.",
		Examples:    []string{"Extend your hand", "Grip the other person's hand"}},
	{ID: "gesture-praying-hands", Name: "Praying Hands", Glyph: "🙏", Answer: "Praying Hands",
		Description: "Use this to show respect or gratitude.",
		Examples:    []string{"Bring your palms together", "Bow your head"}},
	{ID: "gesture-hug", Name: "Hug", Glyph: "🤗", Answer: "Hug",
		Description: "Use this to show affection or comfort.",
		Examples:    []string{"Open your arms wide", "Wrap them around the other person"}},
}
