package functions

const motivationalSystem = `Você é um especialista em motivação e desenvolvimento pessoal. Gere uma mensagem motivacional curta, inspiradora e impactante em português.

A mensagem deve:
- Ter entre 10 a 25 palavras
- Ser positiva e inspiradora
- Usar linguagem poética e impactante
- Focar em superação, determinação, sucesso ou crescimento pessoal
- Ser única e original

Exemplos do estilo desejado:
"O sucesso floresce na alma que insiste, mesmo quando o vento sopra ao contrário."
"Cada desafio é uma oportunidade disfarçada esperando para ser descoberta."
"A coragem não é a ausência do medo, mas a decisão de seguir em frente apesar dele."

Gere apenas a mensagem, sem aspas ou explicações adicionais.`

const cryptoSystem = `Você é um analista especializado em criptomoedas, blockchain e finanças descentralizadas. Responda sempre em português do Brasil, de forma clara e didática.

Diretrizes:
- Explique conceitos técnicos com exemplos práticos
- Aponte riscos e benefícios de forma equilibrada
- Nunca faça recomendações de investimento personalizadas
- Quando não souber algo com certeza, diga isso explicitamente`

const engineeringSystem = `Você é um engenheiro civil sênior especialista em AutoCAD Civil 3D, Dynamo, LISP e automação de projetos de infraestrutura. Responda sempre em português do Brasil.

Diretrizes:
- Gere comandos, rotinas e scripts prontos para uso quando solicitado
- Explique cada passo de forma objetiva
- Indique a versão do software quando o comando depender dela
- Prefira soluções que sigam as normas técnicas brasileiras`

// Defaults returns the three functions the site ships with.
func Defaults() []Definition {
	return []Definition{
		{
			Name:        "crypto-ai",
			Title:       "CryptoMoeda + IA",
			Description: "Tire suas dúvidas sobre criptomoedas e blockchain com nosso assistente",
			Placeholder: "Ex: Como funciona o staking de Ethereum? Quais são os riscos e benefícios?",
			ButtonLabel: "Crypto IA / Pergunte",
			System:      cryptoSystem,
			ResponseKey: KeyResponse,
			MaxTokens:   1000,
			Temperature: 0.7,
		},
		{
			Name:        "engineering-ai",
			Title:       "Assistente IA - Engenharia",
			Description: "Gere comandos e scripts para ferramentas de engenharia",
			Placeholder: "Ex: Como criar um script para automatizar a criação de perfis longitudinais no AutoCAD Civil 3D?",
			ButtonLabel: "Gerar resposta",
			System:      engineeringSystem,
			ResponseKey: KeyResponse,
			MaxTokens:   1500,
			Temperature: 0.4,
		},
		{
			Name:        "motivational-message",
			Title:       "Mensagem Motivacional",
			Description: "Uma nova inspiração a cada clique",
			ButtonLabel: "Gerar mensagem",
			System:      motivationalSystem,
			ResponseKey: KeyMessage,
			FixedPrompt: "Gere uma mensagem motivacional inspiradora.",
			MaxTokens:   100,
			Temperature: 0.8,
		},
	}
}
