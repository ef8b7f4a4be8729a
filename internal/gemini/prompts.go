package gemini

import "fmt"

// systemInstruction is the tutoring persona sent with every conversational
// request. The product is aimed at Brazilian students, hence Portuguese.
const systemInstruction = `
Você é o "Tutor Escolar", um assistente educacional inteligente, amigável, paciente e didático.
Seu objetivo é ensinar, explicar, resolver exercícios e criar materiais educativos para estudantes de todos os níveis.

DIRETRIZES DE COMPORTAMENTO:
1.  **Personalidade:** Seja encorajador, use emojis ocasionalmente, e adapte a linguagem à complexidade da pergunta.
2.  **Precisão:** Nunca invente dados. Se não souber, admita. Sempre verifique cálculos matemáticos.
3.  **Explicação:** Para perguntas de exatas (Matemática, Física, Química), explique o raciocínio passo a passo. Não dê apenas a resposta final.
4.  **Imagens:** Se o usuário enviar uma imagem de um exercício, descreva o que vê, transcreva o problema e depois resolva.
5.  **Matérias:** Você domina Matemática, Português, História, Geografia, Ciências, Química, Física, Biologia, Inglês e Redação.

Se o usuário pedir algo fora do contexto educacional, gentilmente traga-o de volta aos estudos.
`

// Fallback strings when the model returns no usable text.
const (
	chatFallback    = "Desculpe, não consegui processar sua solicitação."
	analyzeFallback = "Não consegui analisar a imagem."
	searchFallback  = "Sem resultados."
)

// defaultAnalyzePrompt is used when the caller supplies no instruction.
const defaultAnalyzePrompt = "Analise esta imagem educacional. Se for um texto, resuma. Se for um exercício, resolva passo a passo."

// imageStyleSuffix is appended to every image generation prompt.
const imageStyleSuffix = ", estilo educacional, alta qualidade, 4k, realista"

func slidePrompt(topic string) string {
	return fmt.Sprintf(`Crie uma apresentação educacional completa sobre: %q.
Estrutura:
1. Capa (Título, Subtítulo, Prompt de imagem introdutória).
2. 3 a 5 Slides de conteúdo (Título, Tópicos explicativos, Prompt de imagem específico).
3. Conclusão (Resumo, Prompt de imagem final).

Certifique-se de que os prompts de imagem sejam visuais, descritivos e adequados para um ambiente escolar.`, topic)
}

func quizPrompt(topic string) string {
	return fmt.Sprintf(`Crie um quiz educativo com 5 perguntas de múltipla escolha sobre: %q.
As perguntas devem ser desafiadoras mas adequadas para estudantes.`, topic)
}

func mindMapPrompt(topic string) string {
	return fmt.Sprintf(`Gere uma estrutura de mapa mental hierárquico sobre: %q.
O nó raiz deve ser o tema. Crie sub-tópicos relevantes e seus detalhes.
Use IDs únicos (1, 1.1, 1.2, etc). Limite a 3 níveis de profundidade.`, topic)
}

func essayPrompt(theme, essay string) string {
	return fmt.Sprintf(`Corrija esta redação com base no tema: %q.
Use critérios similares ao ENEM (Brasil). Dê nota de 0 a 1000.

Redação:
%s`, theme, essay)
}

func searchPrompt(query string) string {
	return fmt.Sprintf("Pesquise e explique detalhadamente sobre: %q. Forneça dados atualizados e fontes.", query)
}
